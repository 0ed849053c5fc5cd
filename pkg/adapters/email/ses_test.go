package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

type fakeSESClient struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSendBuildsTextAlternative(t *testing.T) {
	client := &fakeSESClient{}
	sender := NewSES(SESConfig{From: "noreply@example.com"}, nil, WithClient(client))

	err := sender.Send(context.Background(), Message{
		To:      "ana@example.com",
		Subject: "Convite para Grupo",
		HTML:    "<p>Olá ana,</p><p>Você foi convidado</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(client.inputs))
	}
	input := client.inputs[0]
	if aws.ToString(input.Source) != "noreply@example.com" {
		t.Fatalf("unexpected source %q", aws.ToString(input.Source))
	}
	if input.Destination.ToAddresses[0] != "ana@example.com" {
		t.Fatalf("unexpected destination %+v", input.Destination.ToAddresses)
	}
	text := aws.ToString(input.Message.Body.Text.Data)
	if strings.Contains(text, "<p>") || !strings.Contains(text, "Você foi convidado") {
		t.Fatalf("expected html stripped text part, got %q", text)
	}
	if aws.ToString(input.Message.Body.Html.Data) == "" {
		t.Fatalf("expected html part")
	}
}

func TestSESDryRunSkipsClient(t *testing.T) {
	client := &fakeSESClient{}
	sender := NewSES(SESConfig{From: "noreply@example.com", DryRun: true}, nil, WithClient(client))
	if err := sender.Send(context.Background(), Message{To: "ana@example.com", Text: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(client.inputs) != 0 {
		t.Fatalf("dry run must not call SES")
	}
}

func TestSESValidation(t *testing.T) {
	client := &fakeSESClient{}
	sender := NewSES(SESConfig{}, nil, WithClient(client))
	if err := sender.Send(context.Background(), Message{Text: "hi"}); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("expected ErrRecipientRequired, got %v", err)
	}
	if err := sender.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, ErrContentEmpty) {
		t.Fatalf("expected ErrContentEmpty, got %v", err)
	}
	if err := sender.Send(context.Background(), Message{To: "a@b.c", Text: "hi"}); !errors.Is(err, ErrSenderRequired) {
		t.Fatalf("expected ErrSenderRequired, got %v", err)
	}
}

func TestSESWrapsClientErrors(t *testing.T) {
	boom := errors.New("throttled")
	sender := NewSES(SESConfig{From: "noreply@example.com"}, nil, WithClient(&fakeSESClient{err: boom}))
	if err := sender.Send(context.Background(), Message{To: "a@b.c", Text: "hi"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func TestMaskAddressHidesMiddle(t *testing.T) {
	masked := MaskAddress("ana.silva@example.com")
	if masked == "ana.silva@example.com" || masked == "" {
		t.Fatalf("expected masked address, got %q", masked)
	}
	if !strings.HasPrefix(masked, "an") {
		t.Fatalf("expected leading characters preserved, got %q", masked)
	}
}
