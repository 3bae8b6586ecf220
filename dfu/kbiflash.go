package dfu

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/KiraleTech/KiTools/kbi"
	"github.com/KiraleTech/KiTools/kiserial"
)

const (
	blockSize  = 64
	maxRetries = 5
	retryWait  = 5 * time.Second
)

// KBIFlasher drives the KBI-path flash handshake against a single
// node over an already-open binary-mode transport.
type KBIFlasher struct {
	tr *kiserial.Transport
}

func NewKBIFlasher(tr *kiserial.Transport) *KBIFlasher {
	return &KBIFlasher{tr: tr}
}

// Flash streams every block of f to the device, reporting progress
// through onBlock after each successfully acknowledged block, then
// resets the device. It returns an error describing which block
// failed, if any, after exhausting retries.
func (k *KBIFlasher) Flash(ctx context.Context, f *File, onBlock func(block, total int)) error {
	blocks := f.Blocks(blockSize)

	for bnum, block := range blocks {
		payload := make([]byte, 2+len(block))
		binary.BigEndian.PutUint16(payload[0:2], uint16(bnum))
		copy(payload[2:], block)

		acked := false
		for retry := 0; retry < maxRetries && !acked; retry++ {
			req := kbi.NewCommand(kbi.FrameCommand|kbi.CmdClassExec, kbi.CmdFirmwareUpdate, payload)
			rsp, err := k.tr.ExchangeFrame(ctx, req)
			if err == nil && rsp.Type() == (kbi.FrameResponse|kbi.RespFWUErr) {
				return fmt.Errorf("dfu: node reported a firmware update protocol error at block %d", bnum)
			}
			if err == nil && rsp.Type() == (kbi.FrameResponse|kbi.RespValue) && rsp.Opcode() == kbi.CmdFirmwareUpdate {
				if recvBnum, ok := blockNumber(rsp.Payload()); ok && recvBnum == uint16(bnum) {
					acked = true
					break
				}
			}

			select {
			case <-time.After(retryWait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if !acked {
			return fmt.Errorf("dfu: could not send block #%d after %d retries", bnum, maxRetries)
		}
		if onBlock != nil {
			onBlock(bnum+1, len(blocks))
		}
	}

	if _, err := k.tr.Command(ctx, "reset"); err != nil {
		return fmt.Errorf("dfu: resetting device after flash: %w", err)
	}
	return nil
}

func blockNumber(payload []byte) (uint16, bool) {
	if len(payload) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(payload[:2]), true
}
