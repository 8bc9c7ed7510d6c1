package browser

import (
	"fmt"
	"time"
)

// scrollSettle is how long each scroll step waits for lazily loaded
// content to render before measuring the page again.
const scrollSettle = 500 * time.Millisecond

// ScrollThroughPage sweeps the viewport down the page in half-viewport
// steps until the scroll height stops growing, forcing lazily loaded
// content to render, then scrolls back to the top. The sweep is bounded by
// maxSteps to survive pages that grow without limit (infinite feeds).
func (s *Session) ScrollThroughPage(maxSteps int) error {
	if maxSteps <= 0 {
		maxSteps = 50
	}

	lastHeight, err := s.scrollHeight()
	if err != nil {
		return err
	}
	viewport, err := s.viewportHeight()
	if err != nil {
		return err
	}
	if viewport <= 0 {
		return fmt.Errorf("viewport height reported %d", viewport)
	}

	var position int64
	for step := 0; step < maxSteps; step++ {
		position += viewport / 2
		if err := s.scrollTo(position); err != nil {
			return err
		}
		time.Sleep(scrollSettle)

		height, err := s.scrollHeight()
		if err != nil {
			return err
		}
		if height == lastHeight {
			break
		}
		lastHeight = height

		if viewport, err = s.viewportHeight(); err != nil {
			return err
		}
	}

	// Touch the very bottom so trailing content loads too.
	if err := s.scrollTo(lastHeight); err != nil {
		return err
	}
	time.Sleep(scrollSettle)

	return s.scrollBackToTop(lastHeight, viewport)
}

func (s *Session) scrollBackToTop(height, viewport int64) error {
	for position := height; position > 0; position -= viewport / 2 {
		target := position - viewport/2
		if target < 0 {
			target = 0
		}
		if err := s.scrollTo(target); err != nil {
			return err
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}

func (s *Session) scrollTo(y int64) error {
	if _, err := s.page.Evaluate("y => window.scrollTo(0, y)", y); err != nil {
		return fmt.Errorf("scroll to %d failed: %w", y, err)
	}
	return nil
}

func (s *Session) scrollHeight() (int64, error) {
	return s.evalInt("() => document.body.scrollHeight")
}

func (s *Session) viewportHeight() (int64, error) {
	return s.evalInt("() => window.innerHeight")
}

func (s *Session) evalInt(script string) (int64, error) {
	raw, err := s.page.Evaluate(script)
	if err != nil {
		return 0, fmt.Errorf("script evaluation failed: %w", err)
	}
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("script returned %T, want a number", raw)
}
