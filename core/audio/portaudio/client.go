// Package portaudio provides a duplex microphone/speaker client backed by
// PortAudio. It trades the buffered playback of the miniaudio client for
// blocking writes, which keeps it simple enough for command line tools.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
	"github.com/voxloop/voxloop-core/core/audio"
)

type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	in  []int16
	out []int16
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

func (c *Client) Stream(ctx context.Context, onChunk func(chunk []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				log.Printf("Failed to read from PortAudio stream: %v", err)
			}

			audioBuffer := bytes.Buffer{}
			binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onChunk(audioBuffer.Bytes())
		}
	}
}

func (c *Client) Close() {
	c.stream.Close()
	portaudio.Terminate()
}

// SendAudio writes full buffers to the stream and keeps the trailing partial
// buffer until the next call or Flush.
func (c *Client) SendAudio(chunk []byte) error {
	bufferSize := c.bufferSize * 2

	chunk = append(c.leftoverAudio, chunk...)
	for i := range len(chunk)/bufferSize + 1 {
		if (i+1)*bufferSize > len(chunk) {
			c.leftoverAudio = make([]byte, len(chunk)-i*bufferSize)
			copy(c.leftoverAudio, chunk[i*bufferSize:])
			break
		}

		binary.Read(bytes.NewBuffer(chunk[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		c.stream.Write()
	}

	return nil
}

// Flush pads the remaining partial buffer with silence and writes it out.
func (c *Client) Flush() error {
	if len(c.leftoverAudio) == 0 {
		return nil
	}

	bufferSize := c.bufferSize * 2
	padded := make([]byte, bufferSize)
	copy(padded, c.leftoverAudio)
	c.leftoverAudio = nil

	binary.Read(bytes.NewBuffer(padded), binary.LittleEndian, c.out)
	c.stream.Write()
	return nil
}

// IsPlaying reports whether a partial buffer is still waiting to be written.
// Writes themselves block, so queued audio never outlives a SendAudio call by
// more than one buffer.
func (c *Client) IsPlaying() bool {
	return len(c.leftoverAudio) > 0
}

func (c *Client) ClearBuffer() {
	c.leftoverAudio = nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
