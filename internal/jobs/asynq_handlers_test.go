package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sally/internal/services"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, msg services.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockTransport) Name() string { return "mock" }

type EmailJobsTestSuite struct {
	suite.Suite
	enqueuer  *MockEnqueuer
	transport *MockTransport
	msg       services.EmailMessage
}

func (suite *EmailJobsTestSuite) SetupTest() {
	suite.enqueuer = &MockEnqueuer{}
	suite.transport = &MockTransport{}
	suite.msg = services.EmailMessage{
		To:      []string{"owner@acme.test"},
		Subject: "Welcome",
		Text:    "hello",
		HTML:    "<p>hello</p>",
	}
}

func (suite *EmailJobsTestSuite) TearDownTest() {
	suite.enqueuer.AssertExpectations(suite.T())
	suite.transport.AssertExpectations(suite.T())
}

func TestEmailJobsTestSuite(t *testing.T) {
	suite.Run(t, new(EmailJobsTestSuite))
}

func (suite *EmailJobsTestSuite) TestDispatch_EnqueuesEmailTask() {
	suite.enqueuer.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		var p EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return false
		}
		return task.Type() == TypeEmailSend && p.Message.Subject == "Welcome"
	})).Return(&asynq.TaskInfo{ID: "task-1"}, nil)

	d := NewEmailDispatcher(suite.enqueuer, zap.NewNop())
	assert.NoError(suite.T(), d.Dispatch(context.Background(), suite.msg))
}

func (suite *EmailJobsTestSuite) TestDispatch_EnqueueFailure() {
	suite.enqueuer.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	d := NewEmailDispatcher(suite.enqueuer, zap.NewNop())
	err := d.Dispatch(context.Background(), suite.msg)
	assert.ErrorContains(suite.T(), err, "redis down")
}

func (suite *EmailJobsTestSuite) TestProcessTask_Delivers() {
	task, err := NewEmailTask(suite.msg)
	require.NoError(suite.T(), err)
	suite.transport.On("Send", mock.Anything, suite.msg).Return(nil)

	h := NewEmailHandler(suite.transport, zap.NewNop())
	assert.NoError(suite.T(), h.ProcessTask(context.Background(), task))
}

func (suite *EmailJobsTestSuite) TestProcessTask_TransportErrorIsRetried() {
	task, err := NewEmailTask(suite.msg)
	require.NoError(suite.T(), err)
	suite.transport.On("Send", mock.Anything, suite.msg).Return(errors.New("smtp timeout"))

	h := NewEmailHandler(suite.transport, zap.NewNop())
	err = h.ProcessTask(context.Background(), task)
	assert.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, asynq.SkipRetry))
}

func (suite *EmailJobsTestSuite) TestProcessTask_BadPayloadSkipsRetry() {
	h := NewEmailHandler(suite.transport, zap.NewNop())
	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeEmailSend, []byte("{not json")))
	assert.True(suite.T(), errors.Is(err, asynq.SkipRetry))
}
