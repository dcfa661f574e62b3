package steps

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// selectOverlayOptionHandler opens a dropdown-style overlay and clicks its
// unique exact-text option. Grounded on original_source's
// tool/src/steps/overlay.py.
type selectOverlayOptionHandler struct{}

func (selectOverlayOptionHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	openSel, err := parseNamedSelector(params, "open")
	if err != nil {
		return err
	}
	listSel, err := parseNamedSelector(params, "list")
	if err != nil {
		return err
	}
	optionText, err := requireStrParam(params, "option_text")
	if err != nil {
		return err
	}
	optionText, err = expand(sc, optionText)
	if err != nil {
		return err
	}

	opener, err := sc.Resolver.Resolve(page, openSel, frameOf(params))
	if err != nil {
		return err
	}
	if err := opener.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}

	list, err := waitVisible(sc, page, listSel, frameOf(params), defaultWaitTimeout)
	if err != nil {
		return err
	}

	option, err := uniqueExactTextChild(list, optionText)
	if err != nil {
		return fmt.Errorf("select_overlay_option: %w", err)
	}
	return option.Click(proto.InputMouseButtonLeft, 1)
}

func (selectOverlayOptionHandler) DescribeSchema() Schema {
	return Schema{Name: "select_overlay_option", Category: "high-level", Description: "open an overlay and pick an option by exact text"}
}

// selectWijmoComboHandler drives a Wijmo ComboBox: click its input, wait
// for the dropdown, click the exact-text option. Grounded on
// tool/brt/steps/wijmo_combo.py.
type selectWijmoComboHandler struct{}

func (selectWijmoComboHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	rootSel, err := parseNamedSelector(params, "root")
	if err != nil {
		return err
	}
	optionText, err := requireStrParam(params, "option_text")
	if err != nil {
		return err
	}

	root, err := sc.Resolver.Resolve(page, rootSel, frameOf(params))
	if err != nil {
		return err
	}
	input, err := root.Element("input.wj-form-control, input[wj-part='input']")
	if err != nil {
		return err
	}
	if err := input.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}

	dropdown, err := waitElement(page, ".wj-listbox.wj-content", defaultWaitTimeout)
	if err != nil {
		return fmt.Errorf("select_wijmo_combo: dropdown never appeared: %w", err)
	}
	option, err := uniqueExactTextChild(dropdown, optionText)
	if err != nil {
		return fmt.Errorf("select_wijmo_combo: %w", err)
	}
	return option.Click(proto.InputMouseButtonLeft, 1)
}

func (selectWijmoComboHandler) DescribeSchema() Schema {
	return Schema{Name: "select_wijmo_combo", Category: "high-level", Description: "pick an option from a Wijmo ComboBox"}
}

// clickWijmoGridCellHandler resolves a column by header text, then scans
// virtual-scrolled rows for a key match, scrolling up to 50 times.
// Grounded on tool/brt/steps/wijmo_grid.py and tool/brt/core/waits.py's
// wait_for_wijmo_grid_row.
type clickWijmoGridCellHandler struct{}

const maxGridScrollAttempts = 50

func (clickWijmoGridCellHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	gridSel, err := parseNamedSelector(params, "grid")
	if err != nil {
		return err
	}
	rowKey, ok := params["row_key"].(map[string]any)
	if !ok {
		return fmt.Errorf("click_wijmo_grid_cell: row_key must be a mapping with column/equals")
	}
	keyColumn, err := requireStrParam(rowKey, "column")
	if err != nil {
		return err
	}
	keyValue, err := requireStrParam(rowKey, "equals")
	if err != nil {
		return err
	}
	targetColumn, err := requireStrParam(params, "column")
	if err != nil {
		return err
	}

	grid, err := sc.Resolver.Resolve(page, gridSel, frameOf(params))
	if err != nil {
		return err
	}

	headers, err := grid.Elements(".wj-header .wj-row:first-child .wj-cell")
	if err != nil {
		return err
	}
	keyIdx, targetIdx := -1, -1
	for i, h := range headers {
		text, _ := h.Text()
		text = strings.TrimSpace(text)
		if text == keyColumn {
			keyIdx = i
		}
		if text == targetColumn {
			targetIdx = i
		}
	}
	if keyIdx == -1 || targetIdx == -1 {
		return fmt.Errorf("click_wijmo_grid_cell: column not found (key=%q target=%q)", keyColumn, targetColumn)
	}

	cellsBody, err := grid.Element(".wj-cells")
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxGridScrollAttempts; attempt++ {
		rows, err := grid.Elements(".wj-cells .wj-row")
		if err != nil {
			return err
		}
		for _, row := range rows {
			cells, err := row.Elements(".wj-cell")
			if err != nil || len(cells) <= keyIdx || len(cells) <= targetIdx {
				continue
			}
			keyText, _ := cells[keyIdx].Text()
			if strings.TrimSpace(keyText) == keyValue {
				return cells[targetIdx].Click(proto.InputMouseButtonLeft, 1)
			}
		}

		height, err := cellsBody.Eval(`() => this.clientHeight`)
		if err != nil {
			return err
		}
		if _, err := cellsBody.Eval(`(h) => { this.scrollTop += h }`, height.Value); err != nil {
			return err
		}
		time.Sleep(scrollPollInterval)
	}

	return fmt.Errorf("click_wijmo_grid_cell: row with %s=%q not found after %d scroll attempts", keyColumn, keyValue, maxGridScrollAttempts)
}

func (clickWijmoGridCellHandler) DescribeSchema() Schema {
	return Schema{Name: "click_wijmo_grid_cell", Category: "high-level", Description: "click a cell in a virtual-scrolled Wijmo grid row"}
}

// setDatePickerHandler clicks, clears, types a date string, and presses
// Enter. Grounded on tool/src/steps/datepicker.py.
type setDatePickerHandler struct{}

func (setDatePickerHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	date, err := requireStrParam(params, "date")
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	if err := el.Input(date); err != nil {
		return err
	}
	return el.Type(enterKey()...)
}

func (setDatePickerHandler) DescribeSchema() Schema {
	return Schema{Name: "set_date_picker", Category: "high-level", Description: "fill a date-picker input and confirm with Enter"}
}

// uploadFileHandler sets files directly on a file input, or clicks and
// awaits a file-chooser event for a custom upload trigger. Grounded on
// tool/brt/steps/upload.py.
type uploadFileHandler struct{}

func (uploadFileHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	filePath, err := requireStrParam(params, "file_path")
	if err != nil {
		return err
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("upload_file: %w", err)
	}

	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}

	if isFileInput(el) {
		return el.SetFiles([]string{filePath})
	}

	e := &proto.PageFileChooserOpened{}
	wait := page.Timeout(defaultWaitTimeout).WaitEvent(e)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	wait()
	return proto.DOMSetFileInputFiles{
		Files:         []string{filePath},
		BackendNodeID: e.BackendNodeID,
	}.Call(page)
}

func isFileInput(el *rod.Element) bool {
	tag, err := el.Eval(`() => this.tagName`)
	if err != nil {
		return false
	}
	typ, _ := el.Attribute("type")
	return strings.EqualFold(tag.Value.Str(), "input") && typ != nil && strings.EqualFold(*typ, "file")
}

func (uploadFileHandler) DescribeSchema() Schema {
	return Schema{Name: "upload_file", Category: "high-level", Description: "upload a file via a file input or a file-chooser trigger"}
}

// waitForToastHandler waits for a conventional toast/notification element
// containing the given text to appear, within a bounded timeout.
type waitForToastHandler struct{}

func (waitForToastHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	text, err := requireStrParam(params, "text")
	if err != nil {
		return err
	}
	timeout := timeoutParam(params, defaultWaitTimeout)
	sel := textCssSel(".toast, [role=alert], [role=status]", text)

	deadline := time.Now().Add(timeout)
	for {
		if el, err := sc.Resolver.Resolve(page, sel, frameOf(params)); err == nil {
			if visible, _ := el.Visible(); visible {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait_for_toast: toast containing %q never appeared within %s", text, timeout)
		}
		time.Sleep(scrollPollInterval)
	}
}

func (waitForToastHandler) DescribeSchema() Schema {
	return Schema{Name: "wait_for_toast", Category: "high-level", Description: "wait for a toast/notification containing text"}
}

// assertNoConsoleErrorHandler asserts that no browser console error has
// been observed on the page so far this scenario.
type assertNoConsoleErrorHandler struct{}

func (assertNoConsoleErrorHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if len(sc.ConsoleErrors) > 0 {
		return fmt.Errorf("assert_no_console_error: %d console error(s) observed: %v", len(sc.ConsoleErrors), sc.ConsoleErrors)
	}
	return nil
}

func (assertNoConsoleErrorHandler) DescribeSchema() Schema {
	return Schema{Name: "assert_no_console_error", Category: "high-level", Description: "assert no browser console errors were observed"}
}
