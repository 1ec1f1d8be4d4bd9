package email

import (
	"bytes"
	"io"
	"net"
	"net/mail"
	"sync"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"
)

type received struct {
	From string
	To   []string
	Data []byte
}

type backend struct {
	mu       sync.Mutex
	messages []received
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{backend: b}, nil
}

type session struct {
	backend *backend
	current received
}

func (s *session) Reset() {
	s.current = received{}
}

func (s *session) Logout() error {
	return nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.current.From = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.current.To = append(s.current.To, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.current.Data = data
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.current)
	s.backend.mu.Unlock()
	return nil
}

func TestSmtpSenderSend(t *testing.T) {
	be := &backend{}
	server := smtp.NewServer(be)
	server.Domain = "localhost"

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(func() {
		_ = server.Close()
	})

	var sender Sender = SmtpSender{Server: SmtpServer{HostPort: listener.Addr().String(), Hello: "huddle.test"}}
	err = sender.Send(Message{
		From:         "no-reply@huddle.example.com",
		To:           []string{"jamie@example.com"},
		Subject:      "Join FC Riverside",
		PlainMessage: "hello",
	})
	require.NoError(t, err)

	be.mu.Lock()
	defer be.mu.Unlock()
	require.Len(t, be.messages, 1)
	require.Equal(t, "no-reply@huddle.example.com", be.messages[0].From)
	require.Equal(t, []string{"jamie@example.com"}, be.messages[0].To)

	parsed, err := mail.ReadMessage(bytes.NewReader(be.messages[0].Data))
	require.NoError(t, err)
	require.Equal(t, "Join FC Riverside", parsed.Header.Get("Subject"))
}

func TestSendFailsWhenServerIsDown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	err = Send(SmtpServer{HostPort: addr}, Message{From: "a@example.com", To: []string{"b@example.com"}})
	require.ErrorContains(t, err, "could not connect to smtp server")
}
