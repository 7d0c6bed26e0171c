package model

import "testing"

func TestNotificationType_Valid(t *testing.T) {
	valid := []NotificationType{
		NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError,
		NotificationMaintenance, NotificationPayment, NotificationLease, NotificationLead,
	}
	for _, nt := range valid {
		if !nt.Valid() {
			t.Errorf("%q should be valid", nt)
		}
	}
	for _, nt := range []NotificationType{"", "INFO", "alert", " info"} {
		if nt.Valid() {
			t.Errorf("%q should be invalid", nt)
		}
	}
}
