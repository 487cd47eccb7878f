// Package classify decides what an uploaded attachment is allowed to mean
// for the sender's role. This is the only authorization gate in the system:
// CV patterns are honored only for candidates (role unknown) and HR, WBS
// patterns only for managers. A filename outside the sender's authorized
// pattern set is always unknown.
package classify

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"zalo-hr-gateway/internal/models"
)

var (
	cvRoles  = mapset.NewSet(models.RoleHR, models.RoleUnknown)
	wbsRoles = mapset.NewSet(models.RoleManager)
)

// Classifier matches folded filenames against configured pattern tables.
type Classifier struct {
	cvPatterns  []string
	wbsPatterns []string
}

// New builds a classifier from the configured pattern tables. Patterns are
// folded once up front; the first matching pattern wins, in table order.
func New(cvPatterns, wbsPatterns []string) *Classifier {
	return &Classifier{
		cvPatterns:  foldAll(cvPatterns),
		wbsPatterns: foldAll(wbsPatterns),
	}
}

// Classify returns the file classification of filename for the given role.
func (c *Classifier) Classify(filename string, role models.Role) models.FileClassification {
	name := Fold(filename)

	if cvRoles.Contains(role) && matchAny(name, c.cvPatterns) {
		return models.FileCV
	}
	if wbsRoles.Contains(role) && matchAny(name, c.wbsPatterns) {
		return models.FileWBS
	}
	return models.FileUnknown
}

func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

func foldAll(patterns []string) []string {
	folded := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		folded = append(folded, Fold(pattern))
	}
	return folded
}
