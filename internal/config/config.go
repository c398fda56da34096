package config

import (
	"errors"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

type Config struct {
	BaseURL string `yaml:"base_url"`

	Site SiteConfig `yaml:"site"`

	HTTP struct {
		Address string `yaml:"address"`
		// TrustedProxies are addresses or CIDRs whose X-Forwarded-For is believed.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"http"`

	Database DatabaseConfig `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
		Format string `yaml:"format"` // "text" | "json"
	} `yaml:"logging"`

	Security struct {
		JWTSecret     string `yaml:"jwt_secret"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"security"`

	Telegram struct {
		BotToken     string   `yaml:"bot_token"`
		AdminChatIDs []string `yaml:"admin_chat_ids"`
	} `yaml:"telegram"`
}

// SiteConfig holds what ends up in the document head of every page.
type SiteConfig struct {
	Title         string `yaml:"title"`
	TitleTemplate string `yaml:"title_template"` // "%PageTitle | %AppTitle"
	Description   string `yaml:"description"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"` // e.g. "disable" | "require"
}

func (c *Config) Defaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8910"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Site.TitleTemplate == "" {
		c.Site.TitleTemplate = "%PageTitle | %AppTitle"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Database.Host == "" {
		c.Database.Host = "db"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "blog"
	}
	if c.Database.Name == "" {
		c.Database.Name = "blog"
	}
	if c.Database.Password == "" {
		c.Database.Password = "password"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Security.JWTSecret == "" {
		c.Security.JWTSecret = "change-me"
	}
}

func (c *Config) Validate() error {
	var errs []string
	// DB must have either URL or (Host, User, Name)
	if c.Database.URL == "" {
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, "database.url or database.{host,user,name} must be set")
		}
	}
	if !strings.Contains(c.Site.TitleTemplate, "%PageTitle") {
		errs = append(errs, "site.title_template must contain %PageTitle")
	}
	for _, p := range c.HTTP.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err != nil {
			if _, err := netip.ParseAddr(p); err != nil {
				errs = append(errs, "http.trusted_proxies: invalid entry "+strconv.Quote(p))
			}
		}
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "" && u.Host == "") {
			errs = append(errs, "base_url is not a valid URL")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// BasePath is the path component of BaseURL, without a trailing slash.
func (c *Config) BasePath() string {
	if c.BaseURL == "" {
		return ""
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// AppURL returns a postgres connection URL for the application DB.
func (d *DatabaseConfig) AppURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", errors.New("database config incomplete: need host, user, name or set url")
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// AdminURL points at the cluster's maintenance database, used to create the app DB.
func (d *DatabaseConfig) AdminURL() (string, error) {
	app, err := d.AppURL()
	if err != nil {
		return "", err
	}
	u, err := url.Parse(app)
	if err != nil {
		return "", err
	}
	u.Path = "/postgres"
	return u.String(), nil
}
