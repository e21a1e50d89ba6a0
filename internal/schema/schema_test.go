package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{
			name: "minimal",
			script: `
name: home
steps:
  - action: navigate
    url: /
`,
		},
		{
			name: "every action",
			script: `
name: contact-sales
description: Test to validate contact sales fields
vars:
  email: johndoe@mail.com
steps:
  - {action: navigate, url: "https://zoom.us/"}
  - {action: maximize}
  - {action: assert_title, title: "Contact Sales | Zoom"}
  - {action: click, selector: "#btnJoinMeeting"}
  - {action: wait_visible, selector: "#email"}
  - {action: type, selector: "#email", text: "${email}", tab: true}
  - {action: assert_attribute, selector: "#btnSubmit", attribute: disabled, equals: "true"}
  - {action: assert_attribute, selector: "#btnSubmit", attribute: disabled, absent: true}
  - {action: assert_absent, selector: "span.has-error", message: "Invalid email"}
  - {action: select, selector: "#employee_count", text: "51-250", pass: "Selected"}
`,
		},
		{
			name:    "missing steps",
			script:  "name: home\n",
			wantErr: true,
		},
		{
			name:    "empty steps",
			script:  "name: home\nsteps: []\n",
			wantErr: true,
		},
		{
			name:    "name with spaces",
			script:  "name: zoom join\nsteps:\n  - {action: maximize}\n",
			wantErr: true,
		},
		{
			name:    "unknown action",
			script:  "name: home\nsteps:\n  - {action: hover, selector: a}\n",
			wantErr: true,
		},
		{
			name:    "navigate without url",
			script:  "name: home\nsteps:\n  - {action: navigate}\n",
			wantErr: true,
		},
		{
			name:    "type without text",
			script:  "name: home\nsteps:\n  - {action: type, selector: '#email'}\n",
			wantErr: true,
		},
		{
			name:    "attribute with both equals and absent",
			script:  "name: home\nsteps:\n  - {action: assert_attribute, selector: a, attribute: disabled, equals: 'true', absent: true}\n",
			wantErr: true,
		},
		{
			name:    "attribute with neither equals nor absent",
			script:  "name: home\nsteps:\n  - {action: assert_attribute, selector: a, attribute: disabled}\n",
			wantErr: true,
		},
		{
			name:    "unknown step key",
			script:  "name: home\nsteps:\n  - {action: click, selector: a, xpath: //a}\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			script:  "name: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenario([]byte(tt.script))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{name: "empty file", config: ""},
		{
			name: "full",
			config: `
site:
  base_url: https://zoom.us/
browser:
  bin: /usr/bin/google-chrome
  headless: true
  no_sandbox: true
  wait: 4s
  navigation_timeout: 1m30s
report:
  path: reports/report.html
  title: Nightly
scenarios: scenarios
builtin: false
vars:
  email: johndoe@mail.com
storage:
  dir: storage
  file: results.json
  mysql_dsn: "user:pass@tcp(127.0.0.1:3306)/sitecheck"
paths_to_ignore: [vendor]
`,
		},
		{name: "unknown section", config: "selenium: {}\n", wantErr: true},
		{name: "bad duration", config: "browser:\n  wait: soon\n", wantErr: true},
		{name: "bad base url", config: "site:\n  base_url: zoom.us\n", wantErr: true},
		{name: "headless not bool", config: "browser:\n  headless: maybe\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig([]byte(tt.config))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
