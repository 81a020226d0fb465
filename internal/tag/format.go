package tag

import (
	"strings"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
)

// Format renders the tag for version on the given branch. Every occurrence
// of each placeholder is replaced.
func Format(version string, branch BranchContext, cfg config.ReleaseConfig) string {
	tmpl := cfg.BranchFormat
	if branch.IsDefaultBranch {
		tmpl = cfg.MasterFormat
	}

	r := strings.NewReplacer(
		config.VersionPlaceholder, "v"+version,
		config.BranchNamePlaceholder, branch.SanitizedName,
	)
	return r.Replace(tmpl)
}
