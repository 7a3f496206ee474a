package domain

import "context"

// Roles
const (
	RoleApplicant = "applicant"
	RoleRecruiter = "recruiter"
)

// CallerKind tags who is making a request.
type CallerKind int

const (
	CallerAnonymous CallerKind = iota
	CallerApplicant
	CallerRecruiter
)

func (k CallerKind) String() string {
	switch k {
	case CallerApplicant:
		return RoleApplicant
	case CallerRecruiter:
		return RoleRecruiter
	default:
		return "anonymous"
	}
}

// Caller is the resolved identity of a request. UserID is empty for
// anonymous callers.
type Caller struct {
	Kind   CallerKind
	UserID string
}

var Anonymous = Caller{Kind: CallerAnonymous}

// NewCaller builds a caller from token claims. Unknown roles and empty ids
// degrade to anonymous.
func NewCaller(userID, role string) Caller {
	if userID == "" {
		return Anonymous
	}
	switch role {
	case RoleApplicant:
		return Caller{Kind: CallerApplicant, UserID: userID}
	case RoleRecruiter:
		return Caller{Kind: CallerRecruiter, UserID: userID}
	default:
		return Anonymous
	}
}

func (c Caller) IsAnonymous() bool { return c.Kind == CallerAnonymous }

func (c Caller) IsApplicant() bool { return c.Kind == CallerApplicant }

func (c Caller) IsRecruiter() bool { return c.Kind == CallerRecruiter }

// Role returns the role string, empty for anonymous.
func (c Caller) Role() string {
	if c.IsAnonymous() {
		return ""
	}
	return c.Kind.String()
}

// WithCaller stores the caller and its id/role under the keys usecases read.
func WithCaller(ctx context.Context, c Caller) context.Context {
	ctx = context.WithValue(ctx, KeyCaller, c)
	if !c.IsAnonymous() {
		ctx = context.WithValue(ctx, KeyUserID, c.UserID)
		ctx = context.WithValue(ctx, KeyUserRole, c.Role())
	}
	return ctx
}

// CallerFromContext returns the stored caller, anonymous when none is set.
func CallerFromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(KeyCaller).(Caller); ok {
		return c
	}
	userID, _ := ctx.Value(KeyUserID).(string)
	role, _ := ctx.Value(KeyUserRole).(string)
	return NewCaller(userID, role)
}
