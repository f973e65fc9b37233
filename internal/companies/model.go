package companies

// CreateRequest is the POST /companies body. Everything beyond the name is
// descriptive onboarding detail stored as-is.
type CreateRequest struct {
	Name            string         `json:"name"`
	BusinessType    string         `json:"business_type,omitempty"`
	Niche           string         `json:"niche,omitempty"`
	YearsInBusiness int            `json:"years_in_business,omitempty"`
	Hours           string         `json:"hours,omitempty"`
	Address         string         `json:"address,omitempty"`
	MapURL          string         `json:"map_url,omitempty"`
	Website         string         `json:"website,omitempty"`
	SocialLinks     map[string]any `json:"social_links,omitempty"`
	ScriptNotes     string         `json:"script_notes,omitempty"`
	FAQ             string         `json:"faq,omitempty"`
}

func (r *CreateRequest) insertRow() map[string]any {
	row := map[string]any{
		"name": r.Name,
	}
	if r.BusinessType != "" {
		row["business_type"] = r.BusinessType
	} else {
		row["business_type"] = nil
	}
	if r.Niche != "" {
		row["niche"] = r.Niche
	}
	if r.YearsInBusiness != 0 {
		row["years_in_business"] = r.YearsInBusiness
	}
	if r.Hours != "" {
		row["hours"] = r.Hours
	}
	if r.Address != "" {
		row["address"] = r.Address
	}
	if r.MapURL != "" {
		row["map_url"] = r.MapURL
	}
	if r.Website != "" {
		row["website"] = r.Website
	}
	if len(r.SocialLinks) > 0 {
		row["social_links"] = r.SocialLinks
	}
	if r.ScriptNotes != "" {
		row["script_notes"] = r.ScriptNotes
	}
	if r.FAQ != "" {
		row["faq"] = r.FAQ
	}
	return row
}
