package profile

import (
	"blog-api/internal/domain/account"
	"blog-api/internal/projection"
)

// profileSource projects a profile. The linked account is carried along so
// first_name and last_name can be surfaced as context-requested extras
// without another fetch.
type profileSource struct {
	prof account.Profile
	acct account.Account
}

func (s profileSource) Fields() map[string]any {
	return map[string]any{
		"bio":                 s.prof.Bio,
		"profile_picture_url": s.prof.PictureURL,
		"account":             s.acct.ID.String(),
	}
}

func (s profileSource) ContextField(name string, _ projection.Context) (any, bool) {
	switch name {
	case "first_name":
		return s.acct.FirstName, true
	case "last_name":
		return s.acct.LastName, true
	default:
		return nil, false
	}
}

// ProjectProfile shapes a profile for API output.
func ProjectProfile(prof account.Profile, acct account.Account, opts projection.Options) map[string]any {
	return projection.Project(profileSource{prof: prof, acct: acct}, opts)
}

// accountSource projects an account, optionally embedding its profile as a
// nested projection with settings of its own ("profile_fields" and
// "profile_context" in the parent context).
type accountSource struct {
	acct account.Account
	prof account.Profile
}

func (s accountSource) Fields() map[string]any {
	return map[string]any{
		"id":         s.acct.ID.String(),
		"username":   s.acct.Username,
		"email":      s.acct.Email,
		"first_name": s.acct.FirstName,
		"last_name":  s.acct.LastName,
		"active":     s.acct.Active,
		"created_at": s.acct.CreatedAt,
		"fullname":   s.acct.FirstName + s.acct.LastName,
	}
}

func (s accountSource) ContextField(name string, ctx projection.Context) (any, bool) {
	if name != "profile" {
		return nil, false
	}
	return ProjectProfile(s.prof, s.acct, projection.Options{
		Fields:  ctx.StringSlice("profile_fields"),
		Context: ctx.Nested("profile_context"),
	}), true
}

// ProjectAccount shapes an account for API output.
func ProjectAccount(acct account.Account, prof account.Profile, opts projection.Options) map[string]any {
	return projection.Project(accountSource{acct: acct, prof: prof}, opts)
}
