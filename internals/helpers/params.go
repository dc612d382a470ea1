package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ParseIDParam membaca path param angka positif (mis. :id).
func ParseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return uint(id), nil
}

// QueryUint: nil kalau kosong, error kalau bukan angka positif.
func QueryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" tidak valid")
	}
	v := uint(id)
	return &v, nil
}

// QueryBool: nil kalau kosong; menerima 1/0, true/false, yes/no.
func QueryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query(key)))
	switch raw {
	case "":
		return nil, nil
	case "1", "true", "yes", "y":
		v := true
		return &v, nil
	case "0", "false", "no", "n":
		v := false
		return &v, nil
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, key+" harus boolean")
}
