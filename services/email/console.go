package emailsvc

import (
	"fmt"
	"strings"
	"sync"

	"github.com/geniotutoring/studenttrack/core"
)

var (
	// SentMessages collects messages sent in TEST mode for assertions.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	subjPrefix    string
	disableOutput bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService() core.EmailService {
	return &consoleService{
		subjPrefix:    "[" + core.Conf.AppName + "] ",
		disableOutput: core.Conf.TestMode,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}
	if core.Conf.TestMode {
		mu.Lock()
		SentMessages = append(SentMessages, *msg)
		mu.Unlock()
	}
	if svc.disableOutput {
		return
	}

	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, to.String())
	}
	fmt.Printf(
		"From: %s\nTo: %s\nSubject: %s\n\n%s\n",
		core.Conf.DefaultFromEmail.String(),
		strings.Join(tos, ", "),
		svc.subjPrefix+msg.Subject,
		msg.TextContent,
	)
}
