package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// EmailDispatcher hands a message to the delivery pipeline.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, msg EmailMessage) error
}

type EmailService interface {
	SendInvitation(ctx context.Context, in InvitationEmail) error
	SendRegistrationConfirmation(ctx context.Context, to, firstName, companyName string) error
	SendTenantApproved(ctx context.Context, to, firstName, companyName, subdomain string) error
	SendTenantRejected(ctx context.Context, to, firstName, companyName, reason string) error
}

type InvitationEmail struct {
	To          string
	FirstName   string
	InviterName string
	CompanyName string
	Role        string
	Subdomain   string
}

type emailService struct {
	dispatcher  EmailDispatcher
	frontendURL string
	log         *zap.Logger
}

func NewEmailService(dispatcher EmailDispatcher, frontendURL string, log *zap.Logger) EmailService {
	return &emailService{
		dispatcher:  dispatcher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Named("email"),
	}
}

func (s *emailService) dispatch(ctx context.Context, tmpl emailTemplate, to string, data any) error {
	msg, err := tmpl.render(to, data)
	if err != nil {
		return err
	}
	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		return fmt.Errorf("failed to dispatch email: %w", err)
	}
	s.log.Debug("email queued", zap.String("to", to), zap.String("subject", msg.Subject))
	return nil
}

func (s *emailService) SendInvitation(ctx context.Context, in InvitationEmail) error {
	return s.dispatch(ctx, invitationEmail, in.To, map[string]string{
		"FirstName":   in.FirstName,
		"InviterName": in.InviterName,
		"CompanyName": in.CompanyName,
		"Role":        in.Role,
		"Link":        s.frontendURL + "/login?tenant=" + url.QueryEscape(in.Subdomain) + "&email=" + url.QueryEscape(in.To),
	})
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, to, firstName, companyName string) error {
	return s.dispatch(ctx, registrationEmail, to, map[string]string{
		"FirstName":   firstName,
		"CompanyName": companyName,
	})
}

func (s *emailService) SendTenantApproved(ctx context.Context, to, firstName, companyName, subdomain string) error {
	return s.dispatch(ctx, approvalEmail, to, map[string]string{
		"FirstName":   firstName,
		"CompanyName": companyName,
		"Link":        s.frontendURL + "/login?tenant=" + url.QueryEscape(subdomain),
	})
}

func (s *emailService) SendTenantRejected(ctx context.Context, to, firstName, companyName, reason string) error {
	return s.dispatch(ctx, rejectionEmail, to, map[string]string{
		"FirstName":   firstName,
		"CompanyName": companyName,
		"Reason":      reason,
	})
}
