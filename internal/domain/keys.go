package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserRole  CtxKey = "Role"
	KeyCaller    CtxKey = "Caller"
	KeyRequestID CtxKey = "RequestID"
)
