package handlers

import (
	"net/http"
	"time"

	"github.com/huddle-io/huddle/internal/models"
)

func (suite *HandlerTestSuite) createInvitation(admin models.User, add models.AddInvitationCode) models.InvitationCode {
	res := suite.ServeRequest(admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateInvitationCode)
	suite.Require().Equal(http.StatusCreated, res.Code, res.Body.String())
	return decode[models.InvitationCode](suite.T(), res)
}

func (suite *HandlerTestSuite) redeem(user models.User, code string) int {
	res := suite.ServeRequest(user.ID, http.MethodPost, "/:id/redeem", "/"+code+"/redeem",
		models.RedeemInvitationCode{FullName: "Sam Example"}, suite.api.RedeemInvitationCode)
	return res.Code
}

func (suite *HandlerTestSuite) TestCreateInvitationCodeSendsEmail() {
	require := suite.Require()
	mailer := &fakeMailer{}
	suite.api.Mailer = mailer
	suite.api.SmtpFrom = "no-reply@huddle.example.com"

	invitation := suite.createInvitation(suite.admin, models.AddInvitationCode{
		OrganizationID: suite.org.ID,
		Email:          "sam@example.com",
		Role:           models.RoleCoach,
		ExpiresIn:      "48h",
	})
	require.Regexp(`^[A-Z2-9]{4}-[A-Z2-9]{4}-[A-Z2-9]{4}$`, invitation.Code)
	require.WithinDuration(time.Now().Add(48*time.Hour), invitation.ExpiresAt, time.Minute)

	require.Len(mailer.messages, 1)
	message := mailer.messages[0]
	require.Equal([]string{"sam@example.com"}, message.To)
	require.Contains(message.Subject, "fc-riverside")
	require.Contains(message.PlainMessage, invitation.Code)
}

func (suite *HandlerTestSuite) TestCreateInvitationCodeWithoutMailer() {
	require := suite.Require()
	invitation := suite.createInvitation(suite.admin, models.AddInvitationCode{OrganizationID: suite.org.ID, Email: "sam@example.com"})
	require.Equal(models.RoleMember, invitation.Role)

	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddInvitationCode{OrganizationID: suite.org.ID, Role: models.RoleSuperAdmin}, suite.api.CreateInvitationCode)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddInvitationCode{OrganizationID: suite.org.ID, ExpiresIn: "soon"}, suite.api.CreateInvitationCode)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member.ID, http.MethodPost, "/", "/",
		models.AddInvitationCode{OrganizationID: suite.org.ID}, suite.api.CreateInvitationCode)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestRedeemInvitationCode() {
	require := suite.Require()
	invitation := suite.createInvitation(suite.admin, models.AddInvitationCode{
		OrganizationID: suite.org.ID,
		Email:          suite.outsider.Email,
		Role:           models.RoleCoach,
	})

	res := suite.ServeRequest(suite.outsider.ID, http.MethodPost, "/:id/redeem", "/"+invitation.Code+"/redeem",
		models.RedeemInvitationCode{FullName: "Sam Example"}, suite.api.RedeemInvitationCode)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	user := decode[models.User](suite.T(), res)
	require.Equal(suite.org.ID, *user.OrganizationID)
	require.Equal(models.RoleCoach, user.Role)
	require.Equal("Sam Example", user.FullName)

	var stored models.InvitationCode
	require.NoError(suite.api.db.First(&stored, "id = ?", invitation.ID).Error)
	require.True(stored.Consumed())
	require.Equal(suite.outsider.ID, *stored.ConsumedByID)
	require.NotNil(stored.ConsumedAt)

	// one time only
	require.Equal(http.StatusForbidden, suite.redeem(suite.outsider, invitation.Code))
}

func (suite *HandlerTestSuite) TestRedeemInvitationCodeReleasesPreviousSeat() {
	require := suite.Require()
	oldSeat := models.Seat{OrganizationID: suite.otherOrg.ID, UserID: &suite.otherMember.ID}
	require.NoError(suite.api.db.Create(&oldSeat).Error)

	invitation := suite.createInvitation(suite.admin, models.AddInvitationCode{OrganizationID: suite.org.ID})
	require.Equal(http.StatusOK, suite.redeem(suite.otherMember, invitation.Code))

	var seat models.Seat
	require.NoError(suite.api.db.First(&seat, "id = ?", oldSeat.ID).Error)
	require.True(seat.Available())

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.freeSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.otherMember.ID}, suite.api.UpdateSeat)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Equal(suite.otherMember.ID, *decode[models.Seat](suite.T(), res).UserID)
}

func (suite *HandlerTestSuite) TestRedeemInvitationCodeRejections() {
	require := suite.Require()

	expired := models.InvitationCode{
		Code:           "EXPD-2222-3333",
		OrganizationID: suite.org.ID,
		Role:           models.RoleMember,
		ExpiresAt:      time.Now().Add(-time.Hour),
	}
	require.NoError(suite.api.db.Create(&expired).Error)
	require.Equal(http.StatusGone, suite.redeem(suite.outsider, expired.Code))

	addressed := suite.createInvitation(suite.admin, models.AddInvitationCode{OrganizationID: suite.org.ID, Email: "someone@example.com"})
	require.Equal(http.StatusForbidden, suite.redeem(suite.outsider, addressed.Code))

	require.Equal(http.StatusNotFound, suite.redeem(suite.outsider, "NOPE-NOPE-NOPE"))

	var outsider models.User
	require.NoError(suite.api.db.First(&outsider, "id = ?", suite.outsider.ID).Error)
	require.Nil(outsider.OrganizationID)
}

func (suite *HandlerTestSuite) TestInvitationsFlag() {
	suite.api.fflags.RegisterFlag("invitations", func() bool { return false })
	defer suite.api.fflags.RegisterEnvFlag("invitations", "HUDDLE_FFLAG_INVITATIONS", true)

	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddInvitationCode{OrganizationID: suite.org.ID}, suite.api.CreateInvitationCode)
	suite.Require().Equal(http.StatusMethodNotAllowed, res.Code, res.Body.String())
}
