package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// findFieldsJS locates the login controls without assuming stable
// identifiers: the email field is the first visible input that is not a
// password/button-like type, the password field is any visible password
// input. Matches are tagged with a data attribute so later actions can
// address them with a plain selector.
const findFieldsJS = `(() => {
	const visible = el => {
		const s = getComputedStyle(el);
		const r = el.getBoundingClientRect();
		return s.display !== 'none' && s.visibility !== 'hidden' && r.width > 0 && r.height > 0;
	};
	const skip = ['password', 'submit', 'button', 'checkbox', 'hidden', 'radio'];
	const inputs = Array.from(document.querySelectorAll('input'));
	const email = inputs.find(el => visible(el) && !skip.includes((el.type || 'text').toLowerCase()));
	const pass = inputs.find(el => visible(el) && (el.type || '').toLowerCase() === 'password');
	if (email) email.setAttribute('data-td-login', 'email');
	if (pass) pass.setAttribute('data-td-login', 'password');
	return { email: !!email, password: !!pass };
})()`

// submitJS clicks the most likely submit control. Returns false when no
// candidate exists so the caller can fall back to the Enter key.
const submitJS = `(() => {
	const direct = document.querySelector('button[type="submit"], input[type="submit"]');
	if (direct) { direct.click(); return true; }
	const texts = ['login', 'sign in'];
	const btn = Array.from(document.querySelectorAll('button'))
		.find(b => texts.includes((b.innerText || '').trim().toLowerCase()));
	if (btn) { btn.click(); return true; }
	return false;
})()`

const (
	emailSelector    = `input[data-td-login="email"]`
	passwordSelector = `input[data-td-login="password"]`
)

type loginFields struct {
	Email    bool `json:"email"`
	Password bool `json:"password"`
}

// awaitFields polls for interactable login controls within the bounded
// field wait. The email field is mandatory; a missing password field is
// tolerated (keyboard Tab fallback at fill time).
func (s *Scraper) awaitFields(ctx context.Context) (loginFields, error) {
	deadline := time.Now().Add(time.Duration(s.cfg.FieldWaitSeconds) * time.Second)
	var fields loginFields
	for {
		err := chromedp.Run(ctx, chromedp.Evaluate(findFieldsJS, &fields))
		if err != nil {
			return fields, fmt.Errorf("probe login fields: %w", err)
		}
		if fields.Email {
			return fields, nil
		}
		if time.Now().After(deadline) {
			return fields, fmt.Errorf("could not find email input field within %ds", s.cfg.FieldWaitSeconds)
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(500*time.Millisecond)); err != nil {
			return fields, err
		}
	}
}

// fillAndSubmit types the credentials and triggers the login form.
func (s *Scraper) fillAndSubmit(ctx context.Context, havePassword bool) error {
	actions := []chromedp.Action{
		chromedp.Click(emailSelector, chromedp.ByQuery),
		chromedp.SetValue(emailSelector, "", chromedp.ByQuery),
		chromedp.SendKeys(emailSelector, s.creds.Email, chromedp.ByQuery),
	}
	if havePassword {
		actions = append(actions,
			chromedp.Click(passwordSelector, chromedp.ByQuery),
			chromedp.SetValue(passwordSelector, "", chromedp.ByQuery),
			chromedp.SendKeys(passwordSelector, s.creds.Password, chromedp.ByQuery),
		)
	} else {
		// No password input found yet; tab out of the email field and
		// type blind. Some login forms reveal the password input only
		// after the email field loses focus.
		actions = append(actions,
			chromedp.KeyEvent(kb.Tab),
			chromedp.Sleep(300*time.Millisecond),
			chromedp.KeyEvent(s.creds.Password),
		)
	}
	actions = append(actions, chromedp.Sleep(500*time.Millisecond))

	if err := chromedp.Run(ctx, actions...); err != nil {
		return fmt.Errorf("fill credentials: %w", err)
	}

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(submitJS, &clicked)); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	if !clicked {
		if err := chromedp.Run(ctx, chromedp.KeyEvent(kb.Enter)); err != nil {
			return fmt.Errorf("submit via enter: %w", err)
		}
		s.logger.Debug().Msg("no submit control found, sent Enter")
	}
	return nil
}

// awaitAuth polls for a success signal after submit: navigation away
// from the login URL, an auth cookie, or (as a last resort once the
// wait expires) authenticated page content.
func (s *Scraper) awaitAuth(ctx context.Context) bool {
	deadline := time.Now().Add(time.Duration(s.cfg.AuthWaitSeconds) * time.Second)
	for time.Now().Before(deadline) {
		if err := chromedp.Run(ctx, chromedp.Sleep(500*time.Millisecond)); err != nil {
			return false
		}

		var loc string
		if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
			return false
		}
		if !onLoginPage(loc) {
			s.logger.Info().Str("url", loc).Msg("login redirect observed")
			_ = chromedp.Run(ctx, chromedp.Sleep(2*time.Second))
			return true
		}

		names, err := cookieNames(ctx)
		if err == nil {
			if name, ok := authCookie(names); ok {
				s.logger.Info().Str("cookie", name).Msg("auth cookie observed")
				_ = chromedp.Run(ctx, chromedp.Sleep(2*time.Second))
				return true
			}
		}
	}

	body, err := s.bodyText(ctx)
	if err == nil && authContent(body) {
		s.logger.Info().Msg("authenticated content observed")
		return true
	}
	return false
}

func cookieNames(ctx context.Context) ([]string, error) {
	var names []string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			names = append(names, c.Name)
		}
		return nil
	}))
	return names, err
}
