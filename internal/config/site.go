package config

import "maps"

// SiteConfig holds the request customization for one host.
type SiteConfig struct {
	// Cookie is sent as the Cookie header.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Defaults holds the crawl defaults of a .spider file.
// Nil pointers mean "not set", so an explicit 0 or false can be told apart
// from an absent key.
type Defaults struct {
	Level     *int              `yaml:"level,omitempty"`
	Path      string            `yaml:"path,omitempty"`
	Recursive *bool             `yaml:"recursive,omitempty"`
	Proxy     string            `yaml:"proxy,omitempty"`
	Cookie    string            `yaml:"cookie,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .spider configuration file.
type File struct {
	// Defaults apply to every crawl unless a flag overrides them.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Sites maps a host (host:port as it appears in URLs) to its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the settings for host, merged over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := SiteConfig{Cookie: cf.Defaults.Cookie}
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}
