package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zalo-hr-gateway/internal/approval"
	"zalo-hr-gateway/internal/classify"
	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
)

type fakeRoles struct {
	hrChannelID string
	known       map[string]models.Role
}

func (f *fakeRoles) Resolve(_ context.Context, channelID string) models.Role {
	if channelID == f.hrChannelID {
		return models.RoleHR
	}
	if role, ok := f.known[channelID]; ok {
		return role
	}
	return models.RoleUnknown
}

type ingestCall struct {
	FileURL  string
	SenderID string
	Filename string
}

type fakeIngestor struct {
	mu       sync.Mutex
	profile  models.CandidateProfile
	cvPath   string
	cvErr    error
	summary  string
	wbsErr   error
	cvCalls  []ingestCall
	wbsCalls []ingestCall
}

func (f *fakeIngestor) IngestCV(_ context.Context, fileURL, senderID, filename string) (*models.CandidateProfile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cvCalls = append(f.cvCalls, ingestCall{fileURL, senderID, filename})
	if f.cvErr != nil {
		return nil, "", f.cvErr
	}
	profile := f.profile
	return &profile, f.cvPath, nil
}

func (f *fakeIngestor) IngestWBS(_ context.Context, fileURL, senderID, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wbsCalls = append(f.wbsCalls, ingestCall{fileURL, senderID, filename})
	if f.wbsErr != nil {
		return "", f.wbsErr
	}
	return f.summary, nil
}

type decision struct {
	Verb           approval.Verb
	RegistrationID string
}

type fakeApprover struct {
	mu        sync.Mutex
	submitted []models.CandidateProfile
	decisions []decision
}

func (f *fakeApprover) Submit(_ context.Context, profile models.CandidateProfile, _, _ string) models.PendingRegistration {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, profile)
	return models.PendingRegistration{RegistrationID: "REG-1", Profile: profile}
}

func (f *fakeApprover) Decide(_ context.Context, verb approval.Verb, registrationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, decision{Verb: verb, RegistrationID: registrationID})
}

type fakeChatter struct {
	reply   string
	err     error
	queries []string
}

func (f *fakeChatter) Chat(_ context.Context, _, query string) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type reply struct {
	ChannelID string
	Text      string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []reply
}

func (f *fakeNotifier) Send(_ context.Context, channelID, text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, reply{ChannelID: channelID, Text: text})
	return true
}

type routerFixture struct {
	router   *Router
	ingestor *fakeIngestor
	approver *fakeApprover
	chatter  *fakeChatter
	notifier *fakeNotifier
}

func newRouterFixture(roles *fakeRoles) *routerFixture {
	ingestor := &fakeIngestor{
		profile: models.CandidateProfile{Name: "Đỗ Thanh Tùng", Email: "tung@example.com"},
		cvPath:  "uploads/cvs/u1_1_cv.pdf",
		summary: "3 tasks created",
	}
	approver := &fakeApprover{}
	chatter := &fakeChatter{reply: "Xin chào!"}
	notifier := &fakeNotifier{}
	classifier := classify.New(
		[]string{"cv", "resume", "ho so"},
		[]string{"wbs", "ke hoach"},
	)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &routerFixture{
		router:   NewRouter(roles, classifier, ingestor, approver, chatter, notifier, logger),
		ingestor: ingestor,
		approver: approver,
		chatter:  chatter,
		notifier: notifier,
	}
}

func textEvent(senderID, text string) models.WebhookEvent {
	return models.WebhookEvent{
		EventName: models.EventUserSendText,
		Sender:    &models.Party{ID: senderID},
		Message:   &models.Message{Text: text, MsgID: "m1"},
	}
}

func fileEvent(senderID, filename string) models.WebhookEvent {
	return models.WebhookEvent{
		EventName: models.EventUserSendFile,
		Sender:    &models.Party{ID: senderID},
		Message: &models.Message{
			MsgID: "m2",
			Attachments: []models.Attachment{{
				Type:    "file",
				Payload: models.AttachmentPayload{URL: "https://files/abc", Name: filename},
			}},
		},
	}
}

func TestRouteText(t *testing.T) {
	roles := &fakeRoles{hrChannelID: "hr-1", known: map[string]models.Role{"staff-1": models.RoleStaff}}

	t.Run("registration keyword sends instructions", func(t *testing.T) {
		for _, text := range []string{"Đăng ký", "toi muon dang ky", "REGISTER please"} {
			fx := newRouterFixture(roles)
			outcome := fx.router.Route(context.Background(), textEvent("cand-1", text))
			assert.Equal(t, OutcomeInstructed, outcome, text)
			require.Len(t, fx.notifier.sent, 1)
			assert.Contains(t, fx.notifier.sent[0].Text, "gửi CV")
			assert.Empty(t, fx.chatter.queries, "keyword must not reach the chatbot")
		}
	})

	t.Run("hr command is decided", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), textEvent("hr-1", "APPROVE abc-123"))
		assert.Equal(t, OutcomeDecided, outcome)
		require.Len(t, fx.approver.decisions, 1)
		assert.Equal(t, approval.VerbApprove, fx.approver.decisions[0].Verb)
		assert.Equal(t, "abc-123", fx.approver.decisions[0].RegistrationID)
	})

	t.Run("command from non-hr goes to the chatbot", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), textEvent("staff-1", "APPROVE abc-123"))
		assert.Equal(t, OutcomeChatted, outcome)
		assert.Empty(t, fx.approver.decisions)
		assert.Equal(t, []string{"APPROVE abc-123"}, fx.chatter.queries)
	})

	t.Run("hr free text falls through to the chatbot", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), textEvent("hr-1", "how many pending?"))
		assert.Equal(t, OutcomeChatted, outcome)
		assert.Empty(t, fx.approver.decisions)
	})

	t.Run("chatbot reply is forwarded to the sender", func(t *testing.T) {
		fx := newRouterFixture(roles)
		fx.router.Route(context.Background(), textEvent("staff-1", "xin chào"))
		require.Len(t, fx.notifier.sent, 1)
		assert.Equal(t, "staff-1", fx.notifier.sent[0].ChannelID)
		assert.Equal(t, "Xin chào!", fx.notifier.sent[0].Text)
	})

	t.Run("chatbot failure yields the busy reply", func(t *testing.T) {
		fx := newRouterFixture(roles)
		fx.chatter.err = &faults.ErrExternalService{Service: "chatbot-agent", Err: errors.New("timeout")}
		outcome := fx.router.Route(context.Background(), textEvent("staff-1", "xin chào"))
		assert.Equal(t, OutcomeFailed, outcome)
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "đang bận")
	})
}

func TestRouteFile(t *testing.T) {
	roles := &fakeRoles{hrChannelID: "hr-1", known: map[string]models.Role{
		"mgr-1":   models.RoleManager,
		"staff-1": models.RoleStaff,
	}}

	t.Run("candidate cv is ingested and submitted", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), fileEvent("cand-1", "CV_NguyenVanA.pdf"))
		assert.Equal(t, OutcomeCVSubmitted, outcome)
		require.Len(t, fx.ingestor.cvCalls, 1)
		assert.Equal(t, "cand-1", fx.ingestor.cvCalls[0].SenderID)
		require.Len(t, fx.approver.submitted, 1)
		assert.Equal(t, "Đỗ Thanh Tùng", fx.approver.submitted[0].Name)
	})

	t.Run("manager wbs is processed and acknowledged", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), fileEvent("mgr-1", "wbs_project.xlsx"))
		assert.Equal(t, OutcomeWBSProcessed, outcome)
		require.Len(t, fx.ingestor.wbsCalls, 1)
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "3 tasks created")
	})

	t.Run("cv pattern from a manager is refused without download", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), fileEvent("mgr-1", "CV_NguyenVanA.pdf"))
		assert.Equal(t, OutcomeRejected, outcome)
		assert.Empty(t, fx.ingestor.cvCalls, "unauthorized upload must not be ingested")
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "không nhận diện được")
	})

	t.Run("wbs pattern from staff is refused", func(t *testing.T) {
		fx := newRouterFixture(roles)
		outcome := fx.router.Route(context.Background(), fileEvent("staff-1", "wbs_project.xlsx"))
		assert.Equal(t, OutcomeRejected, outcome)
		assert.Empty(t, fx.ingestor.wbsCalls)
	})

	t.Run("unsupported cv format gets the format reply", func(t *testing.T) {
		fx := newRouterFixture(roles)
		fx.ingestor.cvErr = &faults.ErrUnsupportedInput{Detail: "cv must be pdf or docx"}
		outcome := fx.router.Route(context.Background(), fileEvent("cand-1", "cv.zip"))
		assert.Equal(t, OutcomeRejected, outcome)
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "không đúng định dạng")
	})

	t.Run("ingestion failure apologizes", func(t *testing.T) {
		fx := newRouterFixture(roles)
		fx.ingestor.cvErr = &faults.ErrExternalService{Service: "cv-analyzer", Err: errors.New("down")}
		outcome := fx.router.Route(context.Background(), fileEvent("cand-1", "resume.pdf"))
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Empty(t, fx.approver.submitted)
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "gặp sự cố")
	})

	t.Run("file event without attachment is ignored", func(t *testing.T) {
		fx := newRouterFixture(roles)
		event := models.WebhookEvent{
			EventName: models.EventUserSendFile,
			Sender:    &models.Party{ID: "cand-1"},
			Message:   &models.Message{MsgID: "m3"},
		}
		assert.Equal(t, OutcomeIgnored, fx.router.Route(context.Background(), event))
		assert.Empty(t, fx.notifier.sent)
	})
}

func TestRouteOtherEvents(t *testing.T) {
	roles := &fakeRoles{hrChannelID: "hr-1"}

	t.Run("image upload is refused", func(t *testing.T) {
		fx := newRouterFixture(roles)
		event := models.WebhookEvent{
			EventName: models.EventUserSendImage,
			Sender:    &models.Party{ID: "cand-1"},
		}
		assert.Equal(t, OutcomeRejected, fx.router.Route(context.Background(), event))
		require.Len(t, fx.notifier.sent, 1)
		assert.Contains(t, fx.notifier.sent[0].Text, "hình ảnh")
	})

	t.Run("follow gets the welcome message", func(t *testing.T) {
		fx := newRouterFixture(roles)
		event := models.WebhookEvent{
			EventName: models.EventFollow,
			Follower:  &models.Party{ID: "new-follower"},
		}
		assert.Equal(t, OutcomeWelcomed, fx.router.Route(context.Background(), event))
		require.Len(t, fx.notifier.sent, 1)
		assert.Equal(t, "new-follower", fx.notifier.sent[0].ChannelID)
		assert.Contains(t, fx.notifier.sent[0].Text, "Chào mừng")
	})

	t.Run("unrecognized event name is ignored", func(t *testing.T) {
		fx := newRouterFixture(roles)
		event := models.WebhookEvent{EventName: "oa_send_text"}
		assert.Equal(t, OutcomeIgnored, fx.router.Route(context.Background(), event))
		assert.Empty(t, fx.notifier.sent)
	})
}
