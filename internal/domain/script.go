package domain

// Script is a scenario script loaded from YAML
type Script struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Vars        map[string]string `yaml:"vars,omitempty" json:"vars,omitempty"`
	Steps       []ScriptStep      `yaml:"steps" json:"steps"`

	// Path of the file the script was read from, "builtin" for embedded scripts
	Source string `yaml:"-" json:"-"`
}

// ScriptStep is one scripted browser interaction or assertion
type ScriptStep struct {
	Action    string `yaml:"action" json:"action"`
	URL       string `yaml:"url,omitempty" json:"url,omitempty"`
	Selector  string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	Text      string `yaml:"text,omitempty" json:"text,omitempty"`
	Attribute string `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Equals    string `yaml:"equals,omitempty" json:"equals,omitempty"`
	Absent    bool   `yaml:"absent,omitempty" json:"absent,omitempty"`
	Tab       bool   `yaml:"tab,omitempty" json:"tab,omitempty"`
	Message   string `yaml:"message,omitempty" json:"message,omitempty"`
	Pass      string `yaml:"pass,omitempty" json:"pass,omitempty"`
}
