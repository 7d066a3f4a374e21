package ratelimit

// Check selects which admission checks Enforce runs beyond the always-on
// request check.
type Check struct {
	// CheckUpload enables the upload/bandwidth admission for UploadBytes.
	CheckUpload bool
	UploadBytes int64

	// OperationType, when non-empty, enables the operation admission.
	// The type is carried for diagnostics; it does not partition quota.
	OperationType string
}

// Enforce runs the admission checks for clientID in fixed order: request
// rate always, then upload/bandwidth when requested, then operation when
// requested. The first denial is returned as a *Violation and later checks
// never run (and never record). A nil return means the caller may proceed.
func (l *Limiter) Enforce(clientID string, chk Check) error {
	if st := l.CheckRequest(clientID); !st.Allowed {
		return newViolation(clientID, st)
	}

	if chk.CheckUpload {
		if st := l.CheckUpload(clientID, chk.UploadBytes); !st.Allowed {
			return newViolation(clientID, st)
		}
	}

	if chk.OperationType != "" {
		if st := l.CheckOperation(clientID, chk.OperationType); !st.Allowed {
			return newViolation(clientID, st)
		}
	}

	return nil
}
