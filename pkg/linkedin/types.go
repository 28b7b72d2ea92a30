package linkedin

// Profile holds the subset of /me fields this service consumes.
type Profile struct {
	ID                 string `json:"id"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
	PictureURL         string `json:"pictureUrl"`
}

// DisplayName synthesizes the member's display name from the localized
// first and last name fields.
func (p *Profile) DisplayName() string {
	return p.LocalizedFirstName + " " + p.LocalizedLastName
}

// tokenResponse represents the token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// emailLookup mirrors the projection envelope returned by the
// /emailAddress?q=members&projection=(elements*(handle~)) endpoint.
type emailLookup struct {
	Elements []emailElement `json:"elements"`
}

type emailElement struct {
	Handle emailHandle `json:"handle~"`
}

type emailHandle struct {
	EmailAddress string `json:"emailAddress"`
}
