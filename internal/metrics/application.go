package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ApplicationMetrics tracks domain events: accounts, second factors, bookings and trips
type ApplicationMetrics struct {
	SignupsTotal        prometheus.Counter
	SigninsTotal        prometheus.CounterVec
	VerificationsTotal  prometheus.Counter
	PasswordResetsTotal prometheus.CounterVec

	TwoFAVerificationsTotal prometheus.CounterVec
	NotificationsSentTotal  prometheus.CounterVec

	BookingsTotal     prometheus.CounterVec
	BookedRoomsTotal  prometheus.Counter
	TripsTotal        prometheus.CounterVec
	ImageUploadsTotal prometheus.CounterVec

	RoomsReleasedTotal prometheus.Counter
}

func initializeApplicationMetrics() *ApplicationMetrics {
	return &ApplicationMetrics{
		SignupsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "barefoot_signups_total",
				Help: "Total number of accounts created",
			},
		),
		SigninsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_signins_total",
				Help: "Signin attempts by method and result",
			},
			[]string{"method", "result"},
		),
		VerificationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "barefoot_email_verifications_total",
				Help: "Total number of verified email addresses",
			},
		),
		PasswordResetsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_password_resets_total",
				Help: "Password reset requests and completions",
			},
			[]string{"stage"},
		),
		TwoFAVerificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_twofa_verifications_total",
				Help: "TOTP verifications by type and result",
			},
			[]string{"type", "result"},
		),
		NotificationsSentTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_notifications_sent_total",
				Help: "Emails and texts handed to a provider",
			},
			[]string{"channel", "kind", "status"},
		),
		BookingsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_bookings_total",
				Help: "Booking attempts by result",
			},
			[]string{"result"},
		),
		BookedRoomsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "barefoot_booked_rooms_total",
				Help: "Total number of rooms booked",
			},
		),
		TripsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_trips_total",
				Help: "Trip requests by status transition",
			},
			[]string{"status"},
		),
		ImageUploadsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barefoot_image_uploads_total",
				Help: "Image uploads by result",
			},
			[]string{"result"},
		),
		RoomsReleasedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "barefoot_rooms_released_total",
				Help: "Reserved rooms made available again after their trips ended",
			},
		),
	}
}

// RecordSignup counts a new account
func RecordSignup() {
	Get().App.SignupsTotal.Inc()
}

// RecordSignin counts a signin attempt
func RecordSignin(method, result string) {
	Get().App.SigninsTotal.WithLabelValues(method, result).Inc()
}

// RecordVerification counts a verified email
func RecordVerification() {
	Get().App.VerificationsTotal.Inc()
}

// RecordPasswordReset counts a reset request ("requested") or completion ("completed")
func RecordPasswordReset(stage string) {
	Get().App.PasswordResetsTotal.WithLabelValues(stage).Inc()
}

// RecordTwoFAVerification counts a TOTP check
func RecordTwoFAVerification(twoFAType string, valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	Get().App.TwoFAVerificationsTotal.WithLabelValues(twoFAType, result).Inc()
}

// RecordNotification counts an email or text delivery attempt
func RecordNotification(channel, kind string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	Get().App.NotificationsSentTotal.WithLabelValues(channel, kind, status).Inc()
}

// RecordBooking counts a booking attempt; rooms is the number of rooms booked
func RecordBooking(result string, rooms int) {
	Get().App.BookingsTotal.WithLabelValues(result).Inc()
	if rooms > 0 {
		Get().App.BookedRoomsTotal.Add(float64(rooms))
	}
}

// RecordTrip counts a trip entering status
func RecordTrip(status string) {
	Get().App.TripsTotal.WithLabelValues(status).Inc()
}

// RecordImageUpload counts an image upload
func RecordImageUpload(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	Get().App.ImageUploadsTotal.WithLabelValues(result).Inc()
}

// RecordRoomsReleased counts rooms returned to the available pool
func RecordRoomsReleased(n int64) {
	if n > 0 {
		Get().App.RoomsReleasedTotal.Add(float64(n))
	}
}
