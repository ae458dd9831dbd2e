package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/auth"
	"github.com/Mastel22/boondocks-bn-backend/internal/booking"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/middleware"
	"github.com/Mastel22/boondocks-bn-backend/internal/storage"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// Messages returned to API clients
const (
	MsgEmailInUse         = "Email already in use"
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidVerifyToken = "invalid token, regenerate another token using the link in your verification email"
	MsgAlreadyVerified    = "you are already verified, please login to proceed"
	MsgNoAccount          = "No account with such email exists, please sign up"
	MsgInvalidResetToken  = "invalid or expired password reset token"
	MsgInvalidTwoFAToken  = "Invalid or expired 2FA session, please sign in again"
	MsgOAuthUnverified    = "Your Google account email is not verified"

	MsgPhoneRequired   = "You need to set a phoneNumber to activate 2FA with SMS."
	MsgTwoFANotEnabled = "User doesn't have 2FA enabled."
	MsgInvalidTOTP     = "Invalid TOTP token"

	MsgArrivalInPast      = "Arrival date must not be a day in the past"
	MsgLeavingInPast      = "Leaving date must be today or in the future"
	MsgLeavingBeforeArr   = "Leaving date must not be before arrival date"
	MsgInvalidDate        = "Dates must be valid calendar days in YYYY-MM-DD format"
	MsgRoomsNotInHotel    = "Some rooms are not registered in this hotel"
	MsgRoomsBooked        = "Some rooms are already booked for the selected dates"
	MsgRoomsReserved      = "Some rooms are already reserved"
	MsgLocationExists     = "This location already exists"
	MsgTravelInPast       = "Travel date must be today or in the future"
	MsgReturnDateRequired = "\"returnDate\" is required for return trips"
	MsgReturnBeforeTravel = "Return date must not be before travel date"
)

// serviceError maps a service error to the response a client sees. Unknown
// errors map to nil.
func serviceError(err error) *apierrors.APIError {
	switch {
	// auth
	case errors.Is(err, auth.ErrEmailInUse):
		return apierrors.Conflict(MsgEmailInUse)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apierrors.Unauthorized(MsgInvalidCredentials)
	case errors.Is(err, auth.ErrInvalidVerifyToken):
		return apierrors.InvalidToken(MsgInvalidVerifyToken)
	case errors.Is(err, auth.ErrAlreadyVerified):
		return apierrors.Conflict(MsgAlreadyVerified)
	case errors.Is(err, auth.ErrUserNotFound):
		return apierrors.NotFoundMessage(MsgNoAccount)
	case errors.Is(err, auth.ErrInvalidResetToken):
		return apierrors.InvalidToken(MsgInvalidResetToken)
	case errors.Is(err, auth.ErrInvalidAccessToken):
		return apierrors.Unauthorized(middleware.MsgUnauthorized)
	case errors.Is(err, auth.ErrInvalidTwoFAToken):
		return apierrors.InvalidToken(MsgInvalidTwoFAToken)
	case errors.Is(err, auth.ErrInvalidRole):
		return apierrors.BadRequest("Invalid role")
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		return apierrors.ServiceUnavailable("Google sign-in")
	case errors.Is(err, auth.ErrOAuthEmailUnverified):
		return apierrors.Forbidden(MsgOAuthUnverified)

	// twofactor
	case errors.Is(err, twofactor.ErrPhoneRequired):
		return apierrors.PartialContent(MsgPhoneRequired)
	case errors.Is(err, twofactor.ErrNotEnabled):
		return apierrors.BadRequest(MsgTwoFANotEnabled)
	case errors.Is(err, twofactor.ErrMissingSecret):
		return apierrors.BadRequest(MsgTwoFANotEnabled)
	case errors.Is(err, twofactor.ErrUnsupported):
		return apierrors.BadRequest("Unsupported 2FA type")
	case errors.Is(err, twofactor.ErrInvalidCode):
		return apierrors.BadRequest(MsgInvalidTOTP)
	case errors.Is(err, twofactor.ErrSendFailed):
		return apierrors.ServiceUnavailable("SMS delivery")

	// booking
	case errors.Is(err, booking.ErrArrivalInPast):
		return apierrors.ValidationError("arrivalDate", MsgArrivalInPast)
	case errors.Is(err, booking.ErrLeavingInPast):
		return apierrors.ValidationError("leavingDate", MsgLeavingInPast)
	case errors.Is(err, booking.ErrLeavingBeforeArrive):
		return apierrors.ValidationError("leavingDate", MsgLeavingBeforeArr)
	case errors.Is(err, booking.ErrInvalidDate):
		return apierrors.BadRequest(MsgInvalidDate)
	case errors.Is(err, booking.ErrLocationNotFound):
		return apierrors.NotFound("Location")
	case errors.Is(err, booking.ErrLocationExists):
		return apierrors.Conflict(MsgLocationExists)
	case errors.Is(err, booking.ErrHotelNotFound):
		return apierrors.NotFound("Hotel")
	case errors.Is(err, booking.ErrTripNotFound):
		return apierrors.NotFound("Trip")
	case errors.Is(err, booking.ErrRoomsNotInHotel):
		return apierrors.Conflict(MsgRoomsNotInHotel)
	case errors.Is(err, booking.ErrRoomsBooked):
		return apierrors.Conflict(MsgRoomsBooked)
	case errors.Is(err, booking.ErrRoomsReserved):
		return apierrors.Conflict(MsgRoomsReserved)
	case errors.Is(err, booking.ErrNotHotelOwner):
		return apierrors.Forbidden(middleware.MsgForbidden)
	case errors.Is(err, booking.ErrTravelInPast):
		return apierrors.ValidationError("travelDate", MsgTravelInPast)
	case errors.Is(err, booking.ErrReturnDateRequired):
		return apierrors.ValidationError("returnDate", MsgReturnDateRequired)
	case errors.Is(err, booking.ErrReturnBeforeTravel):
		return apierrors.ValidationError("returnDate", MsgReturnBeforeTravel)
	case errors.Is(err, booking.ErrInvalidStatus):
		return apierrors.BadRequest("Invalid trip status")
	case errors.Is(err, booking.ErrUploadsDisabled):
		return apierrors.ServiceUnavailable("Image upload")

	// storage
	case errors.Is(err, storage.ErrUnsupportedImage):
		return apierrors.ValidationError("image", "Image must be a jpg, jpeg, png, gif or webp file")
	case errors.Is(err, storage.ErrImageTooLarge):
		return apierrors.ValidationError("image", "Image must not be larger than 5MB")
	}
	return nil
}

// respondError answers with the mapped error, or a logged 500 for unknown errors
func respondError(c *gin.Context, err error, action string) {
	if apiErr := serviceError(err); apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	logger.Log.Error("Failed to "+action,
		logger.WithRequestID(middleware.GetRequestID(c)),
		zap.Error(err),
	)
	util.RespondInternalError(c, "Failed to "+action)
}
