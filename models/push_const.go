package models

type PushCode string

const (
	PushNewMessage          PushCode = "new_message"
	PushApplicationPending  PushCode = "application_pending"
	PushApplicationDecided  PushCode = "application_decided"
	PushApplicationReturned PushCode = "application_returned"
	PushPermitExpiring      PushCode = "permit_expiring"
)

type PushTpl struct {
	Title string
	Msg   string
}

var PushCodeMap = map[PushCode]PushTpl{
	PushNewMessage:          {Title: "New message", Msg: "New message from %v: %v"},
	PushApplicationPending:  {Title: "Application pending review", Msg: "Application %v is awaiting your review (%v)."},
	PushApplicationDecided:  {Title: "Application decided", Msg: "Application %v was %v by %v."},
	PushApplicationReturned: {Title: "Application returned", Msg: "Application %v was returned to the permitting officer by %v."},
	PushPermitExpiring:      {Title: "Permit expiring", Msg: "Permit %v for %v expires on %v."},
}
