package studyset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
	"gorm.io/gorm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

// ParseTermsCSV reads term/definition pairs from CSV data. The delimiter is
// sniffed from the first records, a BOM is stripped and a header row is
// skipped when recognised. Returns the parsed pairs and the number of skipped
// records.
func ParseTermsCSV(data []byte) ([]TermInput, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	delimiter := detectCSVDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var terms []TermInput
	skipped := 0
	checkedHeader := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isEmptyCSVRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		if len(record) < 2 {
			skipped++
			continue
		}
		term := strings.TrimSpace(record[0])
		definition := strings.TrimSpace(record[1])
		if term == "" || definition == "" {
			skipped++
			continue
		}
		terms = append(terms, TermInput{
			Term:       term,
			Definition: definition,
		})
	}

	return terms, skipped, nil
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	recordsSeen := 0

	for recordsSeen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyCSVRecord(record) {
			continue
		}
		recordsSeen++

		if len(record) < 2 {
			continue
		}
		counts[len(record)]++
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isEmptyCSVRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	headers := map[string]struct{}{
		"term":       {},
		"definition": {},
		"word":       {},
		"meaning":    {},
	}
	_, leftOK := headers[left]
	_, rightOK := headers[right]
	return leftOK && rightOK
}

// ImportTerms upserts parsed terms into a study set owned by the user:
// existing terms are updated in place, new ones are appended after the current
// display order.
func ImportTerms(userID, studySetID int64, terms []TermInput) (int, int, error) {
	inserted := 0
	updated := 0

	if len(terms) == 0 {
		return inserted, updated, nil
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var set db.StudySet
		if err := tx.Where("id = ?", studySetID).First(&set).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return learning.ErrStudySetNotFound
			}
			return fmt.Errorf("load study set: %w", err)
		}
		if set.AuthorID != userID {
			return learning.ErrNotOwner
		}

		var maxOrder int
		row := tx.Model(&db.Term{}).
			Where("study_set_id = ?", studySetID).
			Select("coalesce(max(display_order), -1)").
			Row()
		if err := row.Scan(&maxOrder); err != nil {
			return fmt.Errorf("read display order: %w", err)
		}

		for _, term := range terms {
			result := tx.Model(&db.Term{}).
				Where("study_set_id = ? AND term = ?", studySetID, term.Term).
				Update("definition", term.Definition)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				updated++
				continue
			}

			maxOrder++
			newTerm := db.Term{
				StudySetID: studySetID,
				Term:       term.Term,
				Definition: term.Definition,
				Order:      maxOrder,
			}
			if err := tx.Create(&newTerm).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return inserted, updated, nil
}

// BuildExportCSV renders a study set's terms as CSV with a BOM so spreadsheet
// tools detect the encoding.
func BuildExportCSV(terms []db.Term) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	for _, term := range terms {
		if err := writer.Write([]string{term.Term, term.Definition}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(title string, now time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "study-set"
	}
	return fmt.Sprintf("%s-%s.csv", slug, now.Format("20060102"))
}
