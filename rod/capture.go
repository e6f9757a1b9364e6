package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/go-rod/rod"
)

// maxFrameDepth bounds iframe recursion.
const maxFrameDepth = 4

// serializeJS serializes the document with every open shadow root written as
// a declarative <template shadowrootmode="open"> inside its host, plus the
// current selection. Element.getHTML does this natively; older browsers get
// an equivalent clone-and-embed walk.
const serializeJS = `() => {
	const roots = [];
	const collect = (root) => {
		for (const el of root.querySelectorAll('*')) {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				collect(el.shadowRoot);
			}
		}
	};

	const embed = (src, dst) => {
		const from = src.querySelectorAll('*');
		const to = dst.querySelectorAll('*');
		for (let i = 0; i < from.length && i < to.length; i++) {
			const sr = from[i].shadowRoot;
			if (!sr) continue;
			const t = document.createElement('template');
			t.setAttribute('shadowrootmode', 'open');
			for (const child of sr.childNodes) t.content.appendChild(child.cloneNode(true));
			embed(sr, t.content);
			to[i].prepend(t);
		}
	};

	const root = document.documentElement;
	let html = '';
	if (root) {
		const shell = root.cloneNode(false).outerHTML;
		const close = shell.lastIndexOf('</');
		let inner;
		if (typeof root.getHTML === 'function') {
			collect(document);
			inner = root.getHTML({ serializableShadowRoots: true, shadowRoots: roots });
		} else {
			const clone = root.cloneNode(true);
			embed(root, clone);
			inner = clone.innerHTML;
		}
		html = close >= 0 ? shell.slice(0, close) + inner + shell.slice(close) : inner;
	}

	let selectionText = '';
	let selectionHtml = '';
	const sel = window.getSelection && window.getSelection();
	if (sel && sel.rangeCount > 0) {
		selectionText = sel.toString();
		const box = document.createElement('div');
		for (let i = 0; i < sel.rangeCount; i++) box.appendChild(sel.getRangeAt(i).cloneContents());
		selectionHtml = box.innerHTML;
	}

	return JSON.stringify({ url: location.href, html, selectionText, selectionHtml });
}`

// frameData is the JSON produced by serializeJS.
type frameData struct {
	URL           string `json:"url"`
	HTML          string `json:"html"`
	SelectionText string `json:"selectionText"`
	SelectionHTML string `json:"selectionHtml"`
}

// decodeFrame turns serializeJS output into a snapshot.
func decodeFrame(frameID, raw string, now time.Time) (*jobgrab.Snapshot, error) {
	var data frameData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding frame %s: %w", frameID, err)
	}
	return &jobgrab.Snapshot{
		FrameID:       frameID,
		URL:           data.URL,
		HTML:          "<!DOCTYPE html>" + data.HTML,
		SelectionText: data.SelectionText,
		SelectionHTML: data.SelectionHTML,
		CapturedAt:    now,
	}, nil
}

// captureFrames serializes page and, depth first, every frame nested in it.
// Only a failure on page itself is returned; unreachable child frames (such
// as cross-origin frames Chrome will not attach to) are skipped.
func captureFrames(ctx context.Context, page *rod.Page) ([]*jobgrab.Snapshot, error) {
	var snaps []*jobgrab.Snapshot
	var walk func(p *rod.Page, depth int) error
	walk = func(p *rod.Page, depth int) error {
		p = p.Context(ctx)

		res, err := p.Eval(serializeJS)
		if err != nil {
			return err
		}
		snap, err := decodeFrame(string(p.FrameID), res.Value.Str(), time.Now().UTC())
		if err != nil {
			return err
		}
		snaps = append(snaps, snap)

		if depth >= maxFrameDepth {
			return nil
		}
		frames, err := p.Elements("iframe, frame")
		if err != nil {
			return nil
		}
		for _, el := range frames {
			child, err := el.Frame()
			if err != nil {
				continue
			}
			_ = walk(child, depth+1)
		}
		return nil
	}

	if err := walk(page, 0); err != nil {
		return nil, err
	}
	return snaps, nil
}
