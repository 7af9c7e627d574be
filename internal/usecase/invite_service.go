package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/invite"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/platform/tasks"
)

// EmailSender delivers transactional mail. Implementations are expected to
// be slow and flaky; callers submit sends as background tasks.
type EmailSender interface {
	Send(ctx context.Context, to, subject, textBody string) error
}

type InviteService struct {
	teams         team.Repository
	memberships   team.MembershipRepository
	players       player.Repository
	users         user.Repository
	invites       invite.Repository
	subscriptions billing.Repository
	email         EmailSender
	runner        *tasks.Runner
	ids           idgen.Generator
	baseURL       string
	logger        *logging.Logger
}

func NewInviteService(
	teams team.Repository,
	memberships team.MembershipRepository,
	players player.Repository,
	users user.Repository,
	invites invite.Repository,
	subscriptions billing.Repository,
	email EmailSender,
	runner *tasks.Runner,
	ids idgen.Generator,
	baseURL string,
	logger *logging.Logger,
) *InviteService {
	if logger == nil {
		logger = logging.Default()
	}

	return &InviteService{
		teams:         teams,
		memberships:   memberships,
		players:       players,
		users:         users,
		invites:       invites,
		subscriptions: subscriptions,
		email:         email,
		runner:        runner,
		ids:           ids,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger,
	}
}

// InvitePlayer creates an invite token for a roster slot and mails it.
// The email send is best-effort: the invite exists and can be re-sent even
// if delivery fails.
func (s *InviteService) InvitePlayer(ctx context.Context, principal user.Principal, playerID, email string) (invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.InvitePlayer")
	defer span.End()

	p, t, err := s.playerAndTeamWithAccess(ctx, principal, playerID)
	if err != nil {
		return invite.Invite{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, p.TeamID); err != nil {
		return invite.Invite{}, err
	}

	if p.LinkedUserID != "" {
		return invite.Invite{}, fmt.Errorf("%w: player is already linked to a user", ErrInvalidInput)
	}
	if _, exists, err := s.invites.AcceptedInviteForPlayer(ctx, p.ID); err != nil {
		return invite.Invite{}, fmt.Errorf("check accepted invite: %w", err)
	} else if exists {
		return invite.Invite{}, fmt.Errorf("%w: player already has an accepted invite", ErrInvalidInput)
	}

	token, err := s.ids.NewID()
	if err != nil {
		return invite.Invite{}, fmt.Errorf("generate invite token: %w", err)
	}

	item := invite.Invite{
		Token:     token,
		PlayerID:  p.ID,
		InviterID: principal.UserID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return invite.Invite{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.invites.CreateInvite(ctx, item); err != nil {
		return invite.Invite{}, fmt.Errorf("create invite: %w", err)
	}

	s.sendInviteMail(item, p, t)

	return item, nil
}

// ResendInvite re-mails an unaccepted invite with the same token.
func (s *InviteService) ResendInvite(ctx context.Context, principal user.Principal, token string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ResendInvite")
	defer span.End()

	item, exists, err := s.invites.GetInviteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("get invite: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: invite", ErrNotFound)
	}
	if item.Accepted() {
		return fmt.Errorf("%w: invite is already accepted", ErrInvalidInput)
	}

	p, t, err := s.playerAndTeamWithAccess(ctx, principal, item.PlayerID)
	if err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, p.TeamID); err != nil {
		return err
	}

	s.sendInviteMail(item, p, t)

	return nil
}

func (s *InviteService) ListInvites(ctx context.Context, principal user.Principal, playerID string) ([]invite.Invite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ListInvites")
	defer span.End()

	p, _, err := s.playerAndTeamWithAccess(ctx, principal, playerID)
	if err != nil {
		return nil, err
	}

	items, err := s.invites.ListInvitesByPlayer(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	return items, nil
}

// AcceptInvite links the signed-in user to the invited roster slot and adds
// them to the team. Any authenticated user holding the token may accept;
// the token itself is the credential.
func (s *InviteService) AcceptInvite(ctx context.Context, principal user.Principal, token string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.AcceptInvite")
	defer span.End()

	if principal.Zero() {
		return team.Team{}, fmt.Errorf("%w: sign in to accept an invite", ErrUnauthenticated)
	}

	item, exists, err := s.invites.GetInviteByToken(ctx, token)
	if err != nil {
		return team.Team{}, fmt.Errorf("get invite: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: invite", ErrNotFound)
	}
	if item.Accepted() {
		return team.Team{}, fmt.Errorf("%w: invite is already accepted", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByID(ctx, item.PlayerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: player=%s", ErrNotFound, item.PlayerID)
	}

	t, exists, err := s.teams.GetByID(ctx, p.TeamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, p.TeamID)
	}

	if err := s.invites.AcceptInvite(ctx, item.Token, principal.UserID, time.Now().UTC()); err != nil {
		return team.Team{}, fmt.Errorf("accept invite: %w", err)
	}

	if err := s.ensureMembership(ctx, p.TeamID, principal.UserID); err != nil {
		return team.Team{}, err
	}

	return t, nil
}

// RequestToJoin records a user-initiated ask to join a team found by slug
// and notifies a team admin by mail.
func (s *InviteService) RequestToJoin(ctx context.Context, principal user.Principal, teamSlug string) (invite.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.RequestToJoin")
	defer span.End()

	if principal.Zero() {
		return invite.Request{}, fmt.Errorf("%w: sign in to request to join", ErrUnauthenticated)
	}

	t, exists, err := s.teams.GetBySlug(ctx, teamSlug)
	if err != nil {
		return invite.Request{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return invite.Request{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamSlug)
	}

	isMember, err := s.memberships.Exists(ctx, t.ID, principal.UserID)
	if err != nil {
		return invite.Request{}, fmt.Errorf("check membership: %w", err)
	}
	if isMember {
		return invite.Request{}, fmt.Errorf("%w: already a member of this team", ErrInvalidInput)
	}

	token, err := s.ids.NewID()
	if err != nil {
		return invite.Request{}, fmt.Errorf("generate request token: %w", err)
	}

	item := invite.Request{
		Token:     token,
		UserID:    principal.UserID,
		TeamID:    t.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return invite.Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.invites.CreateRequest(ctx, item); err != nil {
		return invite.Request{}, fmt.Errorf("create invite request: %w", err)
	}

	s.notifyAdminOfRequest(item, t, principal)

	return item, nil
}

func (s *InviteService) ListJoinRequests(ctx context.Context, principal user.Principal, teamID string) ([]invite.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ListJoinRequests")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}

	items, err := s.invites.ListOpenRequestsByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list invite requests: %w", err)
	}

	return items, nil
}

// ApproveRequest resolves a join request to a concrete roster slot: the
// requester is linked to the player and added to the team.
func (s *InviteService) ApproveRequest(ctx context.Context, principal user.Principal, token, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ApproveRequest")
	defer span.End()

	req, exists, err := s.invites.GetRequestByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("get invite request: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: invite request", ErrNotFound)
	}
	if req.Accepted() {
		return fmt.Errorf("%w: request is already approved", ErrInvalidInput)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, req.TeamID); err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, req.TeamID); err != nil {
		return err
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	if p.TeamID != req.TeamID {
		return fmt.Errorf("%w: player belongs to another team", ErrInvalidInput)
	}
	if p.LinkedUserID != "" {
		return fmt.Errorf("%w: player is already linked to a user", ErrInvalidInput)
	}

	if err := s.invites.ApproveRequest(ctx, req.Token, p.ID, principal.UserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("approve invite request: %w", err)
	}

	if err := s.ensureMembership(ctx, req.TeamID, req.UserID); err != nil {
		return err
	}

	return nil
}

func (s *InviteService) ensureMembership(ctx context.Context, teamID, userID string) error {
	exists, err := s.memberships.Exists(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if exists {
		return nil
	}

	err = s.memberships.Create(ctx, team.Membership{
		TeamID:    teamID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

func (s *InviteService) sendInviteMail(item invite.Invite, p player.Player, t team.Team) {
	if s.email == nil || s.runner == nil {
		return
	}

	link := fmt.Sprintf("%s/invite/%s", s.baseURL, item.Token)
	subject := fmt.Sprintf("You're invited to join %s", t.Name)
	body := fmt.Sprintf(
		"You've been invited to join %s as %s.\n\nAccept the invite here: %s\n",
		t.Name, p.Name, link,
	)

	to := item.Email
	s.runner.Submit("email.invite", func(ctx context.Context) error {
		return s.email.Send(ctx, to, subject, body)
	})
}

func (s *InviteService) notifyAdminOfRequest(item invite.Request, t team.Team, requester user.Principal) {
	if s.email == nil || s.runner == nil {
		return
	}

	teamID := t.ID
	teamName := t.Name
	requesterEmail := requester.Email
	link := fmt.Sprintf("%s/%s/requests", s.baseURL, t.Slug)

	s.runner.Submit("email.join-request", func(ctx context.Context) error {
		admin, exists, err := s.memberships.FirstByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("resolve team admin: %w", err)
		}
		if !exists {
			return fmt.Errorf("team %s has no members", teamID)
		}
		adminUser, exists, err := s.users.GetByID(ctx, admin.UserID)
		if err != nil {
			return fmt.Errorf("get admin user: %w", err)
		}
		if !exists {
			return fmt.Errorf("admin user %s not found", admin.UserID)
		}

		subject := fmt.Sprintf("New request to join %s", teamName)
		body := fmt.Sprintf(
			"%s asked to join %s.\n\nReview the request here: %s\n",
			requesterEmail, teamName, link,
		)
		return s.email.Send(ctx, adminUser.Email, subject, body)
	})
}

func (s *InviteService) playerAndTeamWithAccess(ctx context.Context, principal user.Principal, playerID string) (player.Player, team.Team, error) {
	if strings.TrimSpace(playerID) == "" {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, p.TeamID); err != nil {
		return player.Player{}, team.Team{}, err
	}

	t, exists, err := s.teams.GetByID(ctx, p.TeamID)
	if err != nil {
		return player.Player{}, team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, p.TeamID)
	}

	return p, t, nil
}
