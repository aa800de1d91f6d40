package cli

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
)

type SigningFlags struct {
	Secret  string        `env:"JWT_SECRET_KEY" required:"" help:"HMAC secret shared with the API."`
	Expires time.Duration `default:"2160h" help:"Token lifetime."`
}

func (f SigningFlags) service() jwt.Service {
	return jwt.NewJWTService(f.Secret, f.Expires, f.Expires)
}

type TokenCmd struct {
	Device TokenDeviceCmd `cmd:"" help:"Mint a kiosk device token."`
	User   TokenUserCmd   `cmd:"" help:"Mint a user access token."`
}

type TokenDeviceCmd struct {
	SigningFlags `embed:""`

	DeviceID  string `arg:"" help:"Kiosk identifier."`
	CompanyID string `required:"" help:"Company the kiosk registers for."`
}

func (c *TokenDeviceCmd) Run(ctx *Context) error {
	token, expiresAt, err := c.service().GenerateDeviceToken(c.DeviceID, c.CompanyID)
	if err != nil {
		return err
	}
	return writeToken(ctx, token, expiresAt)
}

type TokenUserCmd struct {
	SigningFlags `embed:""`

	UserID     string `arg:"" help:"User identifier."`
	Email      string `required:""`
	CompanyID  string `required:""`
	EmployeeID string `help:"Employee record linked to the user."`
	Role       string `enum:"owner,manager,employee" default:"employee"`
}

func (c *TokenUserCmd) Run(ctx *Context) error {
	companyID := c.CompanyID
	var employeeID *string
	if c.EmployeeID != "" {
		employeeID = &c.EmployeeID
	}

	token, expiresAt, err := c.service().GenerateAccessToken(c.UserID, c.Email, employeeID, &companyID, user.Role(c.Role))
	if err != nil {
		return err
	}
	return writeToken(ctx, token, expiresAt)
}

func writeToken(ctx *Context, token string, expiresAt int64) error {
	return json.NewEncoder(ctx.Out).Encode(map[string]string{
		"token":      token,
		"expires_at": time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
	})
}
