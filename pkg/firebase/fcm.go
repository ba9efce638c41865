package firebase

import (
	"context"
	"encoding/json"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging operations. It is constructed
// once at process start and injected; when credentials are absent it stays
// disabled and pushes become no-ops.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService initializes the messaging client from FIREBASE_CREDENTIALS
// (inline JSON) or the given credentials file path.
func NewFCMService(ctx context.Context, credentialsPath string) *FCMService {
	s := &FCMService{}

	credJSON := os.Getenv("FIREBASE_CREDENTIALS")
	var app *firebase.App
	var err error

	if credJSON != "" {
		var credMap map[string]interface{}
		if err := json.Unmarshal([]byte(credJSON), &credMap); err != nil {
			log.Printf("[Firebase] Invalid JSON in FIREBASE_CREDENTIALS: %v", err)
			return s
		}
		app, err = firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		if credentialsPath == "" {
			credentialsPath = "secrets/firebase-service-account.json"
		}
		if _, statErr := os.Stat(credentialsPath); os.IsNotExist(statErr) {
			log.Printf("[Firebase] Credentials file not found: %s", credentialsPath)
			return s
		}
		app, err = firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	}

	if err != nil {
		log.Printf("[Firebase] Failed to initialize app: %v", err)
		return s
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("[Firebase] Failed to get messaging client: %v", err)
		return s
	}

	s.client = client
	log.Println("[Firebase] Successfully initialized")
	return s
}

// IsInitialized returns whether FCM is ready
func (s *FCMService) IsInitialized() bool {
	return s != nil && s.client != nil
}

// SendPushResult represents the result of a push operation
type SendPushResult struct {
	SuccessCount int
	FailureCount int
	// FailedTokens are tokens whose send failed for any reason, including
	// transport errors and an uninitialized client.
	FailedTokens []string
	// UnregisteredTokens are tokens FCM individually rejected as no longer
	// registered. Only these are safe to deactivate; a transport-level
	// failure says nothing about the tokens themselves.
	UnregisteredTokens []string
}

// SendPush sends a push notification to a single device
func (s *FCMService) SendPush(ctx context.Context, token, title, body string, data map[string]string) (bool, error) {
	if !s.IsInitialized() {
		log.Println("[Firebase] Not initialized, skipping push")
		return false, nil
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		if messaging.IsUnregistered(err) {
			log.Printf("[Firebase] Token unregistered: %s...", token[:min(20, len(token))])
			return false, nil
		}
		log.Printf("[Firebase] Push error: %v", err)
		return false, err
	}

	log.Printf("[Firebase] Push sent successfully: %s", response)
	return true, nil
}

// SendPushMultiple sends push notifications to multiple devices
func (s *FCMService) SendPushMultiple(ctx context.Context, tokens []string, title, body string, data map[string]string) *SendPushResult {
	result := &SendPushResult{
		FailedTokens: make([]string, 0),
	}

	if !s.IsInitialized() {
		log.Println("[Firebase] Not initialized, skipping push")
		result.FailureCount = len(tokens)
		result.FailedTokens = tokens
		return result
	}

	if len(tokens) == 0 {
		return result
	}

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:   data,
		Tokens: tokens,
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		log.Printf("[Firebase] Multicast error: %v", err)
		result.FailureCount = len(tokens)
		result.FailedTokens = tokens
		return result
	}

	result.SuccessCount = response.SuccessCount
	result.FailureCount = response.FailureCount

	for idx, resp := range response.Responses {
		if resp.Success {
			continue
		}
		result.FailedTokens = append(result.FailedTokens, tokens[idx])
		if messaging.IsUnregistered(resp.Error) {
			result.UnregisteredTokens = append(result.UnregisteredTokens, tokens[idx])
		}
	}

	log.Printf("[Firebase] Multicast sent - success: %d, failure: %d", result.SuccessCount, result.FailureCount)
	return result
}
