package reporting

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/spec-kit/case-service/internal/domain"
)

// Variant names a role-scoped filter over the case report view.
type Variant string

const (
	VariantMyCases     Variant = "MY_CASES"
	VariantOpenCases   Variant = "OPEN_CASES"
	VariantClosedCases Variant = "CLOSED_CASES"
	VariantTotalCases  Variant = "TOTAL_CASES"
	VariantSLABreach   Variant = "SLA_BREACH_CASES"
	VariantResoAdmin   Variant = "STE_TE_RESO_ADMN"
)

// Group-name prefixes used to scope membership to a workflow role.
const (
	GroupPrefixResolutionTeam = "STE_TE_RESO_TEAM"
	GroupPrefixResolutionLead = "STE_TE_RESO_LEAD"
	GroupAdmin                = "STE_TE_RESO_ADMN"
)

// Report view columns the variant predicates filter on.
const (
	colCreatedBy     = "created_by"
	colProcessor     = "processor"
	colTaskProcessor = "task_processor"
	colAssignedGroup = "assigned_group"
	colStatus        = "status"
)

// Caller is the already-resolved identity of the report consumer.
type Caller struct {
	Email  string
	Groups []string
}

// NormalizeVariant strips wrapping quotes (OData literal syntax) and
// upper-cases the variant name.
func NormalizeVariant(value string) Variant {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "'")
	return Variant(strings.ToUpper(value))
}

// denyAll is the unsatisfiable predicate: unresolvable identity fails closed.
func denyAll() squirrel.Sqlizer {
	return squirrel.Expr("1=0")
}

// BuildVariantFilter maps the caller's identity and group memberships onto
// a WHERE predicate for the report view. It has no side effects; identity
// resolution happens upstream.
func BuildVariantFilter(caller Caller, variant Variant) squirrel.Sqlizer {
	switch variant {
	case VariantMyCases:
		if caller.Email == "" {
			return denyAll()
		}
		return squirrel.Eq{colCreatedBy: caller.Email}

	case VariantOpenCases:
		return openShape(caller, groupsWithPrefix(caller.Groups, GroupPrefixResolutionTeam), domain.StatusPendingResolutionTeam)

	case VariantSLABreach:
		return openShape(caller, groupsWithPrefix(caller.Groups, GroupPrefixResolutionLead), domain.StatusPendingResolutionLead)

	case VariantClosedCases:
		or := squirrel.Or{}
		if caller.Email != "" {
			or = append(or, squirrel.Eq{colProcessor: caller.Email})
		}
		if len(caller.Groups) > 0 {
			or = append(or, squirrel.And{
				squirrel.Eq{colAssignedGroup: caller.Groups},
				squirrel.Eq{colStatus: string(domain.StatusResolved)},
			})
		}
		if len(or) == 0 {
			return denyAll()
		}
		return or

	case VariantTotalCases, VariantResoAdmin:
		if !hasGroup(caller.Groups, GroupAdmin) {
			return denyAll()
		}
		return squirrel.NotEq{colStatus: string(domain.StatusDraft)}

	default:
		if len(caller.Groups) == 0 {
			return denyAll()
		}
		return squirrel.Eq{colAssignedGroup: caller.Groups}
	}
}

// openShape covers the open-cases pattern: rows assigned to one of the
// caller's role-scoped groups in the given status, or rows whose task
// processor is the caller, also in that status.
func openShape(caller Caller, groups []string, status domain.Status) squirrel.Sqlizer {
	or := squirrel.Or{}
	if len(groups) > 0 {
		or = append(or, squirrel.And{
			squirrel.Eq{colAssignedGroup: groups},
			squirrel.Eq{colStatus: string(status)},
		})
	}
	if caller.Email != "" {
		or = append(or, squirrel.And{
			squirrel.Eq{colTaskProcessor: caller.Email},
			squirrel.Eq{colStatus: string(status)},
		})
	}
	if len(or) == 0 {
		return denyAll()
	}
	return or
}

func groupsWithPrefix(groups []string, prefix string) []string {
	var matched []string
	for _, g := range groups {
		if strings.HasPrefix(g, prefix) {
			matched = append(matched, g)
		}
	}
	return matched
}

func hasGroup(groups []string, want string) bool {
	for _, g := range groups {
		if g == want {
			return true
		}
	}
	return false
}
