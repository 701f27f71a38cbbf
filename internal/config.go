package internal

import (
	"flag"
	"os"
	"strings"
)

var c *config

const (
	RunAddress          = "RUN_ADDRESS"
	AdminPassword       = "ADMIN_PASSWORD"
	SessionSecret       = "SESSION_SECRET"
	SpreadsheetID       = "SPREADSHEET_ID"
	GoogleCreds         = "GOOGLE_CREDS"
	AllowedEmailDomains = "ALLOWED_EMAIL_DOMAINS"
)

const (
	defaultRunAddress    = "localhost:5000"
	defaultSessionSecret = "dev_secret"
	defaultSpreadsheetID = "19j-OddWhztjAPP3y3RobEeU4nM9ejJlFy2ZoHGKPShM"
)

type config struct {
	RunAddress          string
	AdminPassword       string
	SessionSecret       string
	SpreadsheetID       string
	GoogleCreds         string
	AllowedEmailDomains string
}

func NewConfig() *config {
	c = new(config)

	flag.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	flag.StringVar(&c.AdminPassword, "p", setEnvOrDefault(AdminPassword, ""), "admin dashboard password")
	flag.StringVar(&c.SessionSecret, "s", setEnvOrDefault(SessionSecret, defaultSessionSecret), "admin session signing secret")
	flag.StringVar(&c.SpreadsheetID, "i", setEnvOrDefault(SpreadsheetID, defaultSpreadsheetID), "ledger spreadsheet id")
	flag.StringVar(&c.GoogleCreds, "g", setEnvOrDefault(GoogleCreds, ""), "google service account credentials json")
	flag.StringVar(&c.AllowedEmailDomains, "e", setEnvOrDefault(AllowedEmailDomains, ""), "comma separated email domain allow list")

	flag.Parse()
	return c
}

// EmailDomains splits the allow list; empty config means no restriction.
func (c *config) EmailDomains() []string {
	if c.AllowedEmailDomains == "" {
		return nil
	}
	var domains []string
	for _, d := range strings.Split(c.AllowedEmailDomains, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}
