package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecognition(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateClips(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecognition() error {
	if c.Recognition.SampleRate <= 0 {
		return errors.New("recognition.sample_rate must be positive")
	}
	if c.Recognition.Retries < 1 {
		return errors.New("recognition.retries must be at least 1")
	}
	if c.Recognition.Concurrency < 1 {
		return errors.New("recognition.concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.FrameWidth <= 0 {
		return errors.New("detection.frame_width must be positive")
	}
	if c.Detection.MinRegionSeconds <= 0 {
		return errors.New("detection.min_region_seconds must be positive")
	}
	if c.Detection.MaxRegionSeconds <= c.Detection.MinRegionSeconds {
		return fmt.Errorf("detection.max_region_seconds must exceed min_region_seconds (%g)", c.Detection.MinRegionSeconds)
	}
	if c.Detection.SilencePercentile <= 0 || c.Detection.SilencePercentile >= 1 {
		return errors.New("detection.silence_percentile must be between 0 and 1 exclusive")
	}
	return nil
}

func (c *Config) validateClips() error {
	if c.Clips.PadBeforeSeconds < 0 || c.Clips.PadAfterSeconds < 0 {
		return errors.New("clips padding must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return errors.New("cache.dir must be set when cache.enabled is true")
	}
	return nil
}
