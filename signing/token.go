package signing

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
	eruecdsa "github.com/signet-tech/signet/crypto/ecdsa"
	logs "github.com/signet-tech/signet/logs"
)

// MakeJwk converts the outward view of a key pair into a JWK for the
// key set endpoint.
func MakeJwk(ctx context.Context, keyInfo PublicKeyInfo) (jwkKey jwk.Key, err error) {
	logs.WithContext(ctx).Debug("MakeJwk - Start")
	publicKey, err := eruecdsa.ParsePublicKey(ctx, keyInfo.PublicKey)
	if err != nil {
		return
	}
	jwkKey, err = jwk.New(publicKey)
	if err != nil {
		logs.WithContext(ctx).Error(fmt.Sprint("failed to create JWK - ", err.Error()))
		return
	}
	if err = jwkKey.Set(jwk.KeyIDKey, keyInfo.KeyId); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if err = jwkKey.Set(jwk.AlgorithmKey, keyInfo.Algorithm); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if err = jwkKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return
}

func MakeKeySet(ctx context.Context, keyInfos []PublicKeyInfo) (set jwk.Set, err error) {
	logs.WithContext(ctx).Debug("MakeKeySet - Start")
	set = jwk.NewSet()
	for _, keyInfo := range keyInfos {
		jwkKey, jwkErr := MakeJwk(ctx, keyInfo)
		if jwkErr != nil {
			err = jwkErr
			return
		}
		set.Add(jwkKey)
	}
	return
}

// VerifyToken parses a compact JWT against the given public keys,
// matching on the kid header.
func VerifyToken(ctx context.Context, strToken string, keyInfos []PublicKeyInfo) (claims map[string]interface{}, err error) {
	logs.WithContext(ctx).Debug("VerifyToken - Start")
	tokenObj, err := jwt.Parse(strToken, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != AlgorithmES256 {
			return nil, fmt.Errorf("invalid token algorithm provided wanted (%s) got (%s)", AlgorithmES256, token.Method.Alg())
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("token has no kid header")
		}
		for _, keyInfo := range keyInfos {
			if keyInfo.KeyId == kid {
				return eruecdsa.ParsePublicKey(ctx, keyInfo.PublicKey)
			}
		}
		return nil, errors.New(fmt.Sprint("kid ", kid, " not found"))
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	if mapClaims, ok := tokenObj.Claims.(jwt.MapClaims); ok && tokenObj.Valid {
		return mapClaims, nil
	}
	err = errors.New("token is not valid")
	logs.WithContext(ctx).Error(err.Error())
	return
}
