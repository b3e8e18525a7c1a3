package model

// Action is the kind of per-item request a client can have in flight.
type Action string

const (
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionComplete Action = "complete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionUpdate, ActionDelete, ActionComplete:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }

// NotificationKind classifies a user facing message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotifySuccess, NotifyError, NotifyInfo:
		return true
	}
	return false
}
