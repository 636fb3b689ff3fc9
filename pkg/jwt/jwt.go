package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos por la API.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Superuser viaja en el token para que el middleware pueda autorizar sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Superuser bool   `json:"superuser"`
	TokenType string `json:"token_type"`
}

// Generate genera un token JWT firmado del tipo indicado (access o refresh).
func Generate(secret, tokenType, userID, username string, superuser bool, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		Username:  username,
		Superuser: superuser,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado, de otro tipo o tiene firma incorrecta.
func Parse(secret, tokenType, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("tipo de token inesperado: %q", claims.TokenType)
	}
	return claims, nil
}
