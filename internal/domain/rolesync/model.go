package rolesync

import "slices"

// Guild is the community server roles are synced on.
type Guild struct {
	ID   string
	Name string
}

// Member is a guild member and the roles it currently holds.
type Member struct {
	ID      string
	RoleIDs []string
}

func (m Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}

// Plan is the set of role mutations that brings a member to its target tier.
type Plan struct {
	MemberID string
	Add      string
	Remove   []string
}

func (p Plan) IsEmpty() bool {
	return p.Add == "" && len(p.Remove) == 0
}

// ComputePlan adds the target role when it is missing and removes every
// other tier role the member holds. Roles outside tierRoleIDs are never touched.
func ComputePlan(member Member, targetRoleID string, tierRoleIDs []string) Plan {
	plan := Plan{MemberID: member.ID}
	if targetRoleID != "" && !member.HasRole(targetRoleID) {
		plan.Add = targetRoleID
	}
	for _, roleID := range tierRoleIDs {
		if roleID == targetRoleID || roleID == "" {
			continue
		}
		if member.HasRole(roleID) && !slices.Contains(plan.Remove, roleID) {
			plan.Remove = append(plan.Remove, roleID)
		}
	}
	return plan
}

// Result reports what was actually applied for one member.
type Result struct {
	Added   bool
	Removed []string
	Errors  []error
}

func (r Result) Changed() bool {
	return r.Added || len(r.Removed) > 0
}

func (r Result) Failed() bool {
	return len(r.Errors) > 0
}
