package syncer

import (
	"errors"
	"fmt"
)

// TagType labels a family of cached reads for bulk invalidation.
type TagType string

const (
	TagProjects        TagType = "Projects"
	TagCommitments     TagType = "Commitments"
	TagBuyoutData      TagType = "BuyoutData"
	TagBudgetDetails   TagType = "BudgetDetails"
	TagBudgetDetail    TagType = "BudgetDetail"
	TagBudgetLineItems TagType = "BudgetLineItems"
)

// Tag attaches a cached entry to an invalidation group. ID scopes the tag
// (usually a project id); an empty ID on an invalidation matches every
// entry carrying the tag type.
type Tag struct {
	Type TagType
	ID   string
}

// matches reports whether an invalidation tag hits an entry tag.
func (inv Tag) matches(entry Tag) bool {
	if inv.Type != entry.Type {
		return false
	}
	return inv.ID == "" || inv.ID == entry.ID
}

// Resource kinds accepted by SyncResource. These are the invalidation keys
// the remote sync endpoint understands.
const (
	ResourceProjects           = "projects"
	ResourceProjectCommitments = "projectCommitments"
	ResourceProjectBudget      = "projectBudget"
)

// ErrUnknownResource is returned for a sync request whose resource kind is
// not in the invalidation table.
var ErrUnknownResource = errors.New("unknown sync resource")

// invalidationRule declares which tags a successful sync of a resource
// kind invalidates. Project-scoped rules substitute the sync's project id;
// type-wide rules leave the id empty and hit every entry of that type.
type invalidationRule struct {
	Type         TagType
	ProjectScope bool
}

// invalidationTable maps resource kinds to the tags they invalidate.
// Declarative on purpose: validated at client construction so a resource
// kind can never silently invalidate nothing.
var invalidationTable = map[string][]invalidationRule{
	ResourceProjects: {
		{Type: TagProjects},
	},
	ResourceProjectCommitments: {
		{Type: TagCommitments, ProjectScope: true},
		{Type: TagBuyoutData, ProjectScope: true},
	},
	ResourceProjectBudget: {
		{Type: TagBudgetDetails, ProjectScope: true},
		{Type: TagBudgetDetail},
		{Type: TagBudgetLineItems, ProjectScope: true},
	},
}

// validateInvalidationTable rejects resource kinds that map to no tags.
func validateInvalidationTable(table map[string][]invalidationRule) error {
	for resource, rules := range table {
		if len(rules) == 0 {
			return fmt.Errorf("invalidation table: resource %q maps to no tags", resource)
		}
	}
	if len(table) == 0 {
		return errors.New("invalidation table is empty")
	}
	return nil
}

// tagsFor resolves the invalidation tags for a resource kind and project.
func tagsFor(resource, projectID string) ([]Tag, error) {
	rules, ok := invalidationTable[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	tags := make([]Tag, 0, len(rules))
	for _, rule := range rules {
		tag := Tag{Type: rule.Type}
		if rule.ProjectScope {
			tag.ID = projectID
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
