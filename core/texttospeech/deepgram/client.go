package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/voxloop/voxloop-core/core/audio"
	"github.com/voxloop/voxloop-core/core/texttospeech"
)

const speakUrl = "https://api.deepgram.com/v1/speak"

type deepgramVoice = string

const (
	VoiceAsteria deepgramVoice = "aura-2-asteria-en"
	VoiceThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceArcas   deepgramVoice = "aura-2-arcas-en"

	defaultVoice = VoiceAsteria
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceAsteria, VoiceThalia, VoiceOrion, VoiceArcas}
}

// SynthesisClient produces spoken audio for response text through the
// Deepgram speak REST endpoint. Audio is returned as a WAV payload in the
// requested encoding.
type SynthesisClient struct {
	apiKey string
	voice  deepgramVoice

	httpClient *http.Client
}

// NewSynthesisClient creates a client for the given voice. The API key is
// read from the DEEPGRAM_API_KEY environment variable when not provided.
func NewSynthesisClient(apiKey string, voice deepgramVoice) (*SynthesisClient, error) {
	if apiKey == "" {
		envKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
		if !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
		apiKey = envKey
	}

	client := &SynthesisClient{apiKey: apiKey, voice: defaultVoice, httpClient: &http.Client{}}

	if voice != "" {
		if !slices.Contains(GetAvailableVoices(), voice) {
			return nil, fmt.Errorf("invalid voice")
		}
		client.voice = voice
	}

	return client, nil
}

// IsLoaded reports whether the client is configured well enough to
// synthesize.
func (c *SynthesisClient) IsLoaded() bool {
	return c != nil && c.apiKey != "" && c.voice != ""
}

func (c *SynthesisClient) SetVoice(voice deepgramVoice) error {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return fmt.Errorf("invalid voice")
	}

	c.voice = voice
	return nil
}

// Synthesize converts text into a WAV payload.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) ([]byte, error) {
	options := &texttospeech.SynthesisOptions{
		EncodingInfo: audio.GetDefaultEncodingInfo(),
		Voice:        c.voice,
	}
	for _, opt := range opts {
		opt(options)
	}

	requestUrl, _ := url.Parse(speakUrl)
	queryParams := requestUrl.Query()
	queryParams.Set("model", options.Voice)
	queryParams.Set("encoding", options.EncodingInfo.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(options.EncodingInfo.SampleRate))
	queryParams.Set("container", "wav")
	requestUrl.RawQuery = queryParams.Encode()

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestUrl.String(), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("speech synthesis failed: %s: %s", resp.Status, string(body))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading synthesized audio: %w", err)
	}

	return payload, nil
}
