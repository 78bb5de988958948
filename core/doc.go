// Package core contains the shared types and service interfaces of
// SkillHost: the activity envelope exchanged between host and skills,
// conversation references used for proactive delivery, the recognizer
// result consumed by dispatch, the transport abstraction for the
// host↔skill relay channel and the error taxonomy every layer reports
// through.
//
// The package deliberately holds no implementations beyond small value
// helpers; concrete transports, stores and recognizers live in their own
// packages and are injected where needed.
package core
