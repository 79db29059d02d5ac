package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/voxloop/voxloop-core/core/audio"
	"github.com/voxloop/voxloop-core/core/speechtotext"
)

const (
	defaultModel    = "nova-3"
	defaultLanguage = "en-US"

	// utteranceChunkSize keeps websocket frames at roughly 100ms of
	// linear16 16kHz audio so the server paces decoding the same way it
	// would for a live stream.
	utteranceChunkSize = 3200

	transcriptionTimeout = 30 * time.Second
)

// TranscriptionClient transcribes complete utterances over the Deepgram
// listen websocket. Each call opens a fresh connection, streams the
// utterance, closes the stream, and collects the finalized transcript.
type TranscriptionClient struct {
	apiKey string
}

// NewTranscriptionClient creates a client. The API key is read from the
// DEEPGRAM_API_KEY environment variable when not provided.
func NewTranscriptionClient(apiKey string) (*TranscriptionClient, error) {
	if apiKey == "" {
		envKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
		if !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
		apiKey = envKey
	}

	return &TranscriptionClient{apiKey: apiKey}, nil
}

// IsLoaded reports whether the client is configured well enough to
// transcribe.
func (s *TranscriptionClient) IsLoaded() bool {
	return s != nil && s.apiKey != ""
}

// Transcribe sends one utterance and returns its full transcript. An empty
// transcript with a nil error means the audio contained no recognizable
// speech.
func (s *TranscriptionClient) Transcribe(ctx context.Context, utterance []byte, opts ...speechtotext.TranscriptionOption) (string, error) {
	options := &speechtotext.TranscriptionOptions{
		EncodingInfo: audio.GetDefaultEncodingInfo(),
		Model:        defaultModel,
		Language:     defaultLanguage,
	}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return "", fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := s.connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		model:      options.Model,
		language:   options.Language,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open websocket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	} else {
		conn.SetReadDeadline(time.Now().Add(transcriptionTimeout))
	}

	for offset := 0; offset < len(utterance); offset += utteranceChunkSize {
		end := min(offset+utteranceChunkSize, len(utterance))
		if err := conn.WriteMessage(websocket.BinaryMessage, utterance[offset:end]); err != nil {
			return "", fmt.Errorf("failed to write to deepgram client: %w", err)
		}
	}

	if err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return "", fmt.Errorf("failed to close deepgram stream: %w", err)
	}

	return s.collectTranscript(ctx, conn)
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	model      string
	language   string
}

func (s *TranscriptionClient) connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", options.model)
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + s.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (s *TranscriptionClient) collectTranscript(ctx context.Context, conn *websocket.Conn) (string, error) {
	var transcript strings.Builder

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return strings.TrimSpace(transcript.String()), nil
			}
			return "", fmt.Errorf("failed to read deepgram websocket message: %w", err)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		var parsedMsg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &parsedMsg); err != nil {
			log.Println("Failed to unmarshal deepgram message", "error", err)
			continue
		}

		switch api.TypeResponse(parsedMsg.Type) {
		case api.TypeMessageResponse:
			var msgResp api.MessageResponse
			if err := json.Unmarshal(msg, &msgResp); err != nil {
				log.Println("Failed to unmarshal deepgram message", err)
				continue
			}
			if !msgResp.IsFinal || len(msgResp.Channel.Alternatives) == 0 {
				continue
			}
			segment := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
			if len(segment) == 0 {
				continue
			}
			if transcript.Len() > 0 {
				transcript.WriteString(" ")
			}
			transcript.WriteString(segment)

		case api.TypeMetadataResponse:
			// Metadata arrives after CloseStream once all segments are
			// finalized.
			return strings.TrimSpace(transcript.String()), nil
		}
	}
}
