// Package goquery implements villages.Extractor using CSS selectors over
// the parsed page.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/villages"
	"golang.org/x/net/html"
)

// Ensure Extractor implements villages.Extractor at compile time.
var _ villages.Extractor = (*Extractor)(nil)

// Extractor reads the four cascading dropdowns of a saved page.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns one record per village option, in document order.
// District, taluk and hobli are taken from the option currently selected in
// their dropdowns and shared by every record. Absent dropdowns leave the
// corresponding fields empty.
func (e *Extractor) Extract(src string) ([]*villages.Record, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, villages.Errorf(villages.EINVALID, "failed to parse HTML: %v", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	districtID, districtValue := selectedOption(findSelect(doc, villages.DistrictSelectID))
	talukID, talukValue := selectedOption(findSelect(doc, villages.TalukSelectID))
	hobliID, hobliValue := selectedOption(findSelect(doc, villages.HobliSelectID))

	records := []*villages.Record{}
	findSelect(doc, villages.VillageSelectID).Find("option").Each(func(_ int, opt *goquery.Selection) {
		villageID, villageValue := optionValue(opt)
		if villageID == villages.SentinelVillageID {
			return
		}
		records = append(records, &villages.Record{
			DistrictID:    districtID,
			DistrictValue: districtValue,
			TalukID:       talukID,
			TalukValue:    talukValue,
			HobliID:       hobliID,
			HobliValue:    hobliValue,
			VillageID:     villageID,
			VillageValue:  villageValue,
		})
	})

	return records, nil
}

// findSelect returns the first element with the given id.
// The result is empty, not nil, when the id is absent.
func findSelect(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find("#" + id).First()
}

// selectedOption returns the value and label of the option a browser would
// submit for a single-choice select: the first option marked selected,
// otherwise the first option.
func selectedOption(sel *goquery.Selection) (value, label string) {
	options := sel.Find("option")
	chosen := options.Filter("[selected]").First()
	if chosen.Length() == 0 {
		chosen = options.First()
	}
	if chosen.Length() == 0 {
		return "", ""
	}
	return optionValue(chosen)
}

// optionValue returns the option's value attribute and trimmed label.
// Options without a value attribute submit their text.
func optionValue(opt *goquery.Selection) (value, label string) {
	label = strings.TrimSpace(opt.Text())
	value, ok := opt.Attr("value")
	if !ok {
		value = label
	}
	return strings.TrimSpace(value), label
}
