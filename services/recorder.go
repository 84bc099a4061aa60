package services

// Recorder receives business events for metrics.
type Recorder interface {
	AppointmentBooked(source string)
	ReminderSent(channel, status string)
}

type nopRecorder struct{}

func (nopRecorder) AppointmentBooked(string) {}
func (nopRecorder) ReminderSent(string, string) {}

func orNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
