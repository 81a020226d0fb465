package config

// Default values applied before any override.
const (
	DefaultMasterFormat = VersionPlaceholder
	DefaultBranchFormat = BranchNamePlaceholder + "-" + VersionPlaceholder
	DefaultRemote       = "origin"
)

// CreateDefaultConfiguration returns a Config with all default values
// populated: `{{version}}` on default branches, `{{branchName}}-{{version}}`
// elsewhere, lightweight tags pushed to origin.
func CreateDefaultConfiguration() *Config {
	return &Config{
		MasterFormat:  stringPtr(DefaultMasterFormat),
		BranchFormat:  stringPtr(DefaultBranchFormat),
		NoPush:        boolPtr(false),
		Remote:        stringPtr(DefaultRemote),
		Annotate:      boolPtr(false),
		GitHubRelease: boolPtr(false),
	}
}
