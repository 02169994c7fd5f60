package domain

import (
	"errors"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Site identifies one of the monitored properties.
type Site string

const (
	SiteBruceAC Site = "bruceac"
	SiteMeraki  Site = "meraki"
)

// DefaultSite is used whenever a request or command omits the site.
const DefaultSite = SiteBruceAC

// ErrInvalidSite is returned by ParseSite for anything but the two known slugs.
var ErrInvalidSite = errors.New("invalid site")

// SiteTarget pairs a site with the URL that gets audited.
type SiteTarget struct {
	Site Site
	URL  string
	Name string
}

// Sites are the audited properties, in audit order.
var Sites = []SiteTarget{
	{Site: SiteBruceAC, URL: "https://bruceac.com", Name: "Bruce A/C"},
	{Site: SiteMeraki, URL: "https://merakirestoration.com", Name: "Meraki Restoration"},
}

func ParseSite(s string) (Site, error) {
	for _, t := range Sites {
		if string(t.Site) == s {
			return t.Site, nil
		}
	}
	return "", ErrInvalidSite
}

// DisplayName returns the human name for a site slug. Anything that is not
// bruceac is shown as Meraki, mirroring how the bot has always labelled sites.
func DisplayName(slug string) string {
	if slug == string(SiteBruceAC) {
		return "Bruce A/C"
	}
	return "Meraki Restoration"
}

// Target looks up the audit target for a site.
func Target(site Site) (SiteTarget, bool) {
	for _, t := range Sites {
		if t.Site == site {
			return t, true
		}
	}
	return SiteTarget{}, false
}

// RegistrableDomain returns the eTLD+1 of the target URL, falling back to the
// bare host when the public suffix list cannot resolve it.
func (t SiteTarget) RegistrableDomain() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return t.URL
	}
	host := u.Hostname()
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
