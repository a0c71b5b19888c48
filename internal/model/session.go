package model

import "time"

// ShowSession is a scheduled occurrence of an astronomy show in a dome at
// a specific time.  A session belongs to exactly one show and one dome and
// is removed when either is deleted.
//
// Fields:
//
//	ID       – primary key identifier.
//	ShowID   – astronomy show being presented.
//	DomeID   – dome hosting the session.
//	ShowTime – when the session takes place (UTC).
type ShowSession struct {
	ID       uint64    `json:"id"`                // show_sessions.id
	ShowID   uint64    `json:"astronomy_show"`    // show_sessions.astronomy_show_id
	DomeID   uint64    `json:"planetarium_dome"`  // show_sessions.planetarium_dome_id
	ShowTime time.Time `json:"show_time"`         // show_sessions.show_time
}
