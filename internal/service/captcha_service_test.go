package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/dujiao-next/cupcake/internal/config"
)

func TestCaptchaDisabledAlwaysPasses(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: false})
	if err := svc.Verify("", ""); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}
	var nilSvc *CaptchaService
	if err := nilSvc.Verify("", ""); err != nil {
		t.Fatalf("nil captcha service should pass, got %v", err)
	}
}

func TestCaptchaVerifyOnce(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: true, Length: 4})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("unexpected challenge: id=%q image len=%d", challenge.CaptchaID, len(challenge.ImageBase64))
	}
	answer := svc.store.Get(challenge.CaptchaID, false)
	if answer == "" {
		t.Fatalf("answer should be stored")
	}

	if err := svc.Verify(challenge.CaptchaID, "wrong"); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("wrong answer want ErrCaptchaInvalid got %v", err)
	}
	// 错误答案也会让挑战失效
	if err := svc.Verify(challenge.CaptchaID, answer); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("consumed challenge want ErrCaptchaInvalid got %v", err)
	}
}

func TestCaptchaRequiredOnRegister(t *testing.T) {
	cfg := newServiceTestConfig(t)
	captcha := NewCaptchaService(config.CaptchaConfig{Enabled: true})
	svc := NewAccountService(cfg, nil, captcha)
	_, _, err := svc.Register(RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "segredo1"})
	if !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("register without captcha want ErrCaptchaInvalid got %v", err)
	}
}
