// Package seed imports the bilingual checklist catalogue from an .xlsx
// workbook into the template hierarchy.
//
// Workbook layout, one sheet per template:
//
//	row 1:  A=name  B=localized name  C=level  D=group name
//	row 2+: section marker rows open a new sub-section (A=name,
//	        B=localized name, item-type column empty); every following
//	        row until the next marker is an item of that sub-section
//	        (A=name, B=localized name, C=item type, D=required,
//	        E=default value, F=must image, G=must note, H=must signature)
//
// Order is assigned 1-based per level in the order rows are encountered.
package seed

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

// Report summarises what an import run did
type Report struct {
	TemplatesCreated int  `json:"templatesCreated"`
	SectionsCreated  int  `json:"sectionsCreated"`
	ItemsCreated     int  `json:"itemsCreated"`
	TemplatesSkipped int  `json:"templatesSkipped"`
	RowsSkipped      int  `json:"rowsSkipped"`
	Skipped          bool `json:"skipped"`
}

// Options controls an import run
type Options struct {
	// DryRun parses and reports without committing anything
	DryRun bool
}

// errDryRun aborts the transaction after a dry run so nothing commits
var errDryRun = errors.New("seed: dry run")

// Importer populates the template hierarchy from a workbook
type Importer struct {
	db *gorm.DB
}

// NewImporter creates a new importer
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// Run imports every sheet of the workbook at sourcePath. Templates whose
// natural key (name, level) already exists are skipped individually, so a
// re-run after new sheets were added still imports the additions. The whole
// run executes in one transaction; a failure commits nothing.
func (imp *Importer) Run(sourcePath string, opts Options) (*Report, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, svcerr.NewImportError(sourcePath, fmt.Errorf("source file unreadable: %w", err))
	}

	f, err := excelize.OpenFile(sourcePath)
	if err != nil {
		return nil, svcerr.NewImportError(sourcePath, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	report := &Report{}

	err = imp.db.Transaction(func(tx *gorm.DB) error {
		for _, sheet := range f.GetSheetList() {
			rows, err := f.GetRows(sheet)
			if err != nil {
				return svcerr.NewImportError(sourcePath, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
			}
			if err := imp.importSheet(tx, sheet, rows, report); err != nil {
				return err
			}
		}
		if opts.DryRun {
			return errDryRun // roll back, the report survives
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, err
	}

	report.Skipped = report.TemplatesCreated == 0 && report.TemplatesSkipped > 0
	return report, nil
}

// importSheet imports one sheet as one template
func (imp *Importer) importSheet(tx *gorm.DB, sheet string, rows [][]string, report *Report) error {
	if len(rows) == 0 {
		log.Printf("seed: sheet %q is empty, skipping", sheet)
		report.RowsSkipped++
		return nil
	}

	meta := rows[0]
	name := strings.TrimSpace(cell(meta, 0))
	localized := cell(meta, 1)
	level := strings.TrimSpace(cell(meta, 2))
	group := strings.TrimSpace(cell(meta, 3))

	if name == "" || localized == "" {
		log.Printf("seed: sheet %q has no template meta row, skipping sheet", sheet)
		report.RowsSkipped++
		return nil
	}
	if level == "" {
		level = models.LevelProject
	}
	if !models.ValidLevel(level) {
		log.Printf("seed: sheet %q has unknown level %q, skipping sheet", sheet, level)
		report.RowsSkipped++
		return nil
	}

	// Per-template idempotency on the (name, level) natural key
	var existing int64
	if err := tx.Model(&models.ChecklistTemplate{}).Where("name = ? AND level = ?", name, level).Count(&existing).Error; err != nil {
		return svcerr.NewInternalError(err)
	}
	if existing > 0 {
		report.TemplatesSkipped++
		return nil
	}

	tpl := models.ChecklistTemplate{
		ID:            uuid.New(),
		Name:          name,
		NameLocalized: localized,
		Level:         level,
		GroupName:     group,
	}
	if err := tx.Create(&tpl).Error; err != nil {
		return svcerr.NewInternalError(err)
	}
	report.TemplatesCreated++

	var current *models.ChecklistSubSection
	sectionOrder := 0
	itemOrder := 0

	for i, row := range rows[1:] {
		rowName := strings.TrimSpace(cell(row, 0))
		rowLocalized := cell(row, 1)
		itemType := strings.TrimSpace(cell(row, 2))

		if rowName == "" {
			if len(row) > 0 {
				log.Printf("seed: sheet %q row %d has no name, skipping row", sheet, i+2)
				report.RowsSkipped++
			}
			continue
		}

		if itemType == "" {
			// Section marker: flush is implicit, sections are written as
			// they open
			sectionOrder++
			itemOrder = 0
			sec := models.ChecklistSubSection{
				ID:            uuid.New(),
				TemplateID:    tpl.ID,
				Name:          rowName,
				NameLocalized: rowLocalized,
				Order:         sectionOrder,
			}
			if err := tx.Create(&sec).Error; err != nil {
				return svcerr.NewInternalError(err)
			}
			report.SectionsCreated++
			current = &sec
			continue
		}

		if current == nil {
			log.Printf("seed: sheet %q row %d is an item before any section marker, skipping row", sheet, i+2)
			report.RowsSkipped++
			continue
		}

		itemOrder++
		item := models.ChecklistItemTemplate{
			ID:            uuid.New(),
			SubSectionID:  current.ID,
			Name:          rowName,
			NameLocalized: rowLocalized,
			Order:         itemOrder,
			ItemType:      itemType,
			IsRequired:    flag(cell(row, 3)),
			MustImage:     flag(cell(row, 5)),
			MustNote:      flag(cell(row, 6)),
			MustSignature: flag(cell(row, 7)),
		}
		if dv := cell(row, 4); dv != "" {
			item.DefaultValue = &dv
		}
		if err := tx.Create(&item).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		report.ItemsCreated++
	}

	return nil
}

// cell returns the column at index i, tolerating short rows
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// flag parses a spreadsheet boolean cell
func flag(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "TRUE", "Y", "YES", "1", "X":
		return true
	}
	return false
}
