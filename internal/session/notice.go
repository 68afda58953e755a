package session

// NoticeKind is the tone of an operator notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is a short message for the operator.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier receives operator notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

func (s *Session) notify(kind NoticeKind, msg string) {
	s.opts.Notifier.Notify(Notice{Kind: kind, Message: msg})
}
