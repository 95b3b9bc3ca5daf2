package villages

// Dropdown element ids on the source page.
const (
	DistrictSelectID = "ctl00_MainContent_ddlCDistrict"
	TalukSelectID    = "ctl00_MainContent_ddlCTaluk"
	HobliSelectID    = "ctl00_MainContent_ddlCHobli"
	VillageSelectID  = "ctl00_MainContent_ddlCVillage"
)

// Extractor turns a saved page into village records.
type Extractor interface {
	// Extract parses raw HTML and returns one record per village option,
	// in document order, skipping the placeholder option.
	// Missing or malformed dropdowns yield empty fields or an empty result,
	// never an error.
	Extract(html string) ([]*Record, error)
}
