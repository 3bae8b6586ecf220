package dfu

import "fmt"

// USBFlash drives the USB-DFU block-transfer sequence against a
// single bootloader-mode device, mirroring dfu_flash.
func USBFlash(dev *USBDevice, f *File, onBlock func(block, total int)) error {
	status, err := dev.GetStatus()
	if err != nil {
		return fmt.Errorf("dfu: reading status: %w", err)
	}
	if status.State == StateDFUError {
		if err := dev.ClearStatus(); err != nil {
			return fmt.Errorf("dfu: clearing error status: %w", err)
		}
	}

	blocks := f.Blocks(blockSize)
	for bnum, block := range blocks {
		if err := dev.Download(uint16(bnum), block); err != nil {
			return fmt.Errorf("dfu: writing block %d: %w", bnum, err)
		}
		status, err := dev.WaitWhileState(StateDFUDownloadBusy)
		if err != nil {
			return fmt.Errorf("dfu: polling status after block %d: %w", bnum, err)
		}
		if status.State != StateDFUDownloadIdle {
			return fmt.Errorf("dfu: device reported error state %d after block %d", status.State, bnum)
		}
		if onBlock != nil {
			onBlock(bnum+1, len(blocks))
		}
	}

	if err := dev.Leave(); err != nil {
		return fmt.Errorf("dfu: leaving download mode: %w", err)
	}
	status, err = dev.GetStatus()
	if err != nil {
		return fmt.Errorf("dfu: reading final status: %w", err)
	}
	if status.State != StateDFUManifestSync {
		return fmt.Errorf("dfu: device did not reach manifest-sync (state %d)", status.State)
	}
	return nil
}
