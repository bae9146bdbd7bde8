package config

// Config is the top-level structure parsed from refinery YAML.
type Config struct {
	Refinery Refinery `yaml:"refinery"`
}

// Refinery defines the full pipeline: sandbox, loop bounds, tools, and the
// reasoning provider.
type Refinery struct {
	SandboxRoot   string   `yaml:"sandbox_root"`
	MaxIterations int      `yaml:"max_iterations"`
	ExcludeDirs   []string `yaml:"exclude_dirs"`
	ReportDir     string   `yaml:"report_dir"`
	DBPath        string   `yaml:"db_path"`
	TemplateDir   string   `yaml:"template_dir"`
	Tools         Tools    `yaml:"tools"`
	Provider      Provider `yaml:"provider"`
}

// Tools holds the external checker commands.
type Tools struct {
	Pylint Tool `yaml:"pylint"`
	Pytest Tool `yaml:"pytest"`
}

// Tool is one checker invocation: the executable with its leading arguments.
// The target file is appended at run time.
type Tool struct {
	Command []string `yaml:"command"`
	Timeout string   `yaml:"timeout"`
}

// Provider configures the OpenAI-compatible reasoning endpoint. The API key
// itself is never stored in config: APIKeyName names the variable the CLI
// resolves after loading its env file.
type Provider struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKeyName  string  `yaml:"api_key_name"`
	Temperature float32 `yaml:"temperature"`
}
