package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("group_name"))
	assert.NoError(t, ValidateIdentifier("_internal"))
	assert.Error(t, ValidateIdentifier(""))
	assert.Error(t, ValidateIdentifier("1column"))
	assert.Error(t, ValidateIdentifier("name; DROP TABLE projects"))
	assert.Error(t, ValidateIdentifier("CamelCase"))
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]bool{"name": true, "created_at": true}

	assert.Equal(t, `"name" ASC`, OrderClause("name", "", "created_at", allowed))
	assert.Equal(t, `"name" DESC`, OrderClause("name", "DESC", "created_at", allowed))
	assert.Equal(t, `"name" DESC`, OrderClause("name", "desc", "created_at", allowed))

	// Anything off the allowlist falls back
	assert.Equal(t, `"created_at" ASC`, OrderClause("", "", "created_at", allowed))
	assert.Equal(t, `"created_at" ASC`, OrderClause("password", "", "created_at", allowed))
	assert.Equal(t, `"created_at" ASC`, OrderClause(`name"; --`, "", "created_at", allowed))
}

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLikePattern("100%"))
	assert.Equal(t, `a\_b`, EscapeLikePattern("a_b"))
	assert.Equal(t, `c:\\temp`, EscapeLikePattern(`c:\temp`))
	assert.Equal(t, "plain", EscapeLikePattern("plain"))
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%safety%", SearchPattern("safety"))
	assert.Equal(t, `%50\%%`, SearchPattern("50%"))
}
