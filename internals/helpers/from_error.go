package helper

import (
	"schoolmanagement_backend/internals/configs"
	"schoolmanagement_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const GenericServerMessage = "Terjadi kesalahan pada server"

// StatusOf maps an apperror kind to its HTTP status.
func StatusOf(k apperror.Kind) int {
	switch k {
	case apperror.KindValidation, apperror.KindNoRoster:
		return fiber.StatusBadRequest
	case apperror.KindDuplicate, apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError mengubah error dari service menjadi response JSON konsisten.
// *apperror.Error → status sesuai Kind; *fiber.Error → code aslinya;
// selain itu 500. Pesan InternalError hanya dikirim kalau
// API_EXPOSE_INTERNAL_ERRORS aktif.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}

	status := fiber.StatusInternalServerError
	message := err.Error()

	internal := true
	var ae *apperror.Error
	if errors.As(err, &ae) {
		status = StatusOf(ae.Kind)
		message = ae.Message
		internal = ae.Kind == apperror.KindInternal
	}

	if status >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": c.Locals("requestid"),
			"path":       c.Path(),
		}).Errorf("%+v", err)
		if internal && !configs.AppConfig.ExposeInternalErrors {
			message = GenericServerMessage
		}
	}
	return Error(c, status, message)
}

// ErrorHandler dipasang di fiber.Config supaya error dari middleware
// (auth, limiter, recover) juga keluar sebagai JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
