package handlers

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huddle-io/huddle/internal/email"
	"github.com/huddle-io/huddle/internal/models"
)

//go:embed templates/invitation.html
var invitationHtml string
var invitationHtmlTemplate *htmltemplate.Template

//go:embed templates/invitation.txt
var invitationText string
var invitationTextTemplate *texttemplate.Template

func init() {
	var err error
	invitationHtmlTemplate, err = htmltemplate.New("templates/invitation.html").Parse(invitationHtml)
	if err != nil {
		panic(err)
	}
	invitationTextTemplate, err = texttemplate.New("templates/invitation.txt").Parse(invitationText)
	if err != nil {
		panic(err)
	}
}

func (api *API) sendInvitationEmail(fromName string, invitation *models.InvitationCode, orgName string) error {
	if api.Mailer == nil || invitation.Email == "" {
		return nil
	}
	message, err := api.composeInvitationEmail(fromName, invitation, orgName)
	if err != nil {
		return err
	}
	return api.Mailer.Send(message)
}

func (api *API) composeInvitationEmail(fromName string, invitation *models.InvitationCode, orgName string) (email.Message, error) {
	variables := struct {
		AppName          string
		OrganizationName string
		FromUserName     string
		Subject          string
		Code             string
		InvitationURL    string
		ExpiresIn        string
	}{
		AppName:          api.AppName,
		OrganizationName: orgName,
		FromUserName:     fromName,
		Subject:          fmt.Sprintf("%s invited you to join %s", fromName, orgName),
		Code:             invitation.Code,
		InvitationURL:    fmt.Sprintf("%s/join?code=%s", api.FrontendURL, url.QueryEscape(invitation.Code)),
	}

	if !invitation.ExpiresAt.IsZero() {
		variables.ExpiresIn = humanize.Time(invitation.ExpiresAt.Add(30 * time.Second))
	}

	html := bytes.NewBuffer(nil)
	err := invitationHtmlTemplate.Execute(html, variables)
	if err != nil {
		return email.Message{}, err
	}

	text := bytes.NewBuffer(nil)
	err = invitationTextTemplate.Execute(text, variables)
	if err != nil {
		return email.Message{}, err
	}

	message := email.Message{
		From:         fmt.Sprintf("%s <%s>", fromName, api.SmtpFrom),
		To:           []string{invitation.Email},
		Subject:      variables.Subject,
		PlainMessage: text.String(),
		HtmlMessages: html.String(),
	}
	return message, nil
}
