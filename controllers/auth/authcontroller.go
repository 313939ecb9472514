package auth

import (
	"net/http"
	"time"

	"SIABSEN/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HashPassword dipakai command hash-password untuk mengisi ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IssueToken membuat JWT HS256 untuk username.
func IssueToken(username string, ttl time.Duration) (string, error) {
	claims := config.JWTClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "SIABSEN",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWT_KEY)
}

func LoginHandler(admin config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Validasi Input JSON
		var payload LoginPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Input tidak valid: " + err.Error()})
			return
		}

		// 2. Admin belum dikonfigurasi
		if admin.PasswordHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login admin belum dikonfigurasi"})
			return
		}

		// 3. Cocokkan username dan password
		if payload.Username != admin.Username ||
			bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(payload.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Username atau password salah"})
			return
		}

		// 4. Buat token
		token, err := IssueToken(admin.Username, admin.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
