package models

// ScopeKind enumerates the closed set of visibility scopes a principal can
// resolve to. Every scoped repository query branches on exactly this set.
type ScopeKind string

const (
	// ScopeGlobal grants platform-wide visibility, optionally narrowed to a
	// single institution chosen interactively.
	ScopeGlobal ScopeKind = "global"
	// ScopeInstitution limits visibility to the institution the principal
	// manages.
	ScopeInstitution ScopeKind = "institution"
	// ScopeProfessor limits visibility to releases authored by the principal's
	// professor record.
	ScopeProfessor ScopeKind = "professor"
	// ScopeUnauthorized yields empty collections for every operation.
	ScopeUnauthorized ScopeKind = "unauthorized"
)

// ScopeDescriptor is the resolved visibility of an authenticated principal.
// It is produced once by the scope resolver and passed explicitly through
// every downstream read and write.
type ScopeDescriptor struct {
	Kind ScopeKind `json:"kind"`
	// InstitutionFilter narrows a global scope to one institution. Nil means
	// all institutions.
	InstitutionFilter *uint `json:"institution_filter,omitempty"`
	// InstitutionID is the managed institution for ScopeInstitution, or the
	// professor's home institution for ScopeProfessor.
	InstitutionID uint `json:"institution_id,omitempty"`
	ProfessorID   uint `json:"professor_id,omitempty"`
}

// GlobalScope builds an administrator scope, optionally institution-filtered.
func GlobalScope(institutionFilter *uint) ScopeDescriptor {
	return ScopeDescriptor{Kind: ScopeGlobal, InstitutionFilter: institutionFilter}
}

// InstitutionScope builds a manager scope over a single institution.
func InstitutionScope(institutionID uint) ScopeDescriptor {
	return ScopeDescriptor{Kind: ScopeInstitution, InstitutionID: institutionID}
}

// ProfessorScope builds a teacher scope carrying the professor's institution
// for auxiliary lookups.
func ProfessorScope(professorID, institutionID uint) ScopeDescriptor {
	return ScopeDescriptor{Kind: ScopeProfessor, ProfessorID: professorID, InstitutionID: institutionID}
}

// UnauthorizedScope builds the empty scope.
func UnauthorizedScope() ScopeDescriptor {
	return ScopeDescriptor{Kind: ScopeUnauthorized}
}

// IsAuthorized reports whether the scope permits release management at all.
func (s ScopeDescriptor) IsAuthorized() bool {
	return s.Kind != ScopeUnauthorized
}

// CanViewDeleted reports whether soft-deleted releases may be listed.
// Administrator-only.
func (s ScopeDescriptor) CanViewDeleted() bool {
	return s.Kind == ScopeGlobal
}
