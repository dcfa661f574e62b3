package steps

// NewDefaultRegistry builds a Registry with every built-in handler from
// spec.md §4.4/§4.5 registered. goto is deliberately absent: the runner
// dispatches it directly for determinism (spec.md §4.6).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("back", backHandler{})
	r.Register("reload", reloadHandler{})

	r.Register("click", clickHandler{clicks: 1})
	r.Register("dblclick", clickHandler{clicks: 2})
	r.Register("fill", fillHandler{})
	r.Register("press", pressHandler{})
	r.Register("check", checkHandler{want: true})
	r.Register("uncheck", checkHandler{want: false})
	r.Register("select_option", selectOptionHandler{})
	r.Register("scroll", scrollHandler{})
	r.Register("scroll_into_view", scrollIntoViewHandler{})

	r.Register("wait_for", waitForHandler{})
	r.Register("wait_for_visible", waitForVisibleHandler{visible: true})
	r.Register("wait_for_hidden", waitForVisibleHandler{visible: false})
	r.Register("wait_for_network_idle", waitForNetworkIdleHandler{})

	r.Register("expect_visible", expectVisibleHandler{want: true})
	r.Register("expect_hidden", expectVisibleHandler{want: false})
	r.Register("expect_text", expectTextHandler{})
	r.Register("expect_url", expectURLHandler{})

	r.Register("store_text", storeTextHandler{})
	r.Register("store_attr", storeAttrHandler{})

	r.Register("screenshot", screenshotHandler{})
	r.Register("log", logHandler{})
	r.Register("dump_dom", dumpDomHandler{})

	r.Register("use_storage_state", useStorageStateHandler{})
	r.Register("save_storage_state", saveStorageStateHandler{})

	r.Register("api_mock", apiMockHandler{})
	r.Register("route_stub", routeStubHandler{stubs: map[string]stubPayload{}})

	r.Register("select_overlay_option", selectOverlayOptionHandler{})
	r.Register("select_wijmo_combo", selectWijmoComboHandler{})
	r.Register("click_wijmo_grid_cell", clickWijmoGridCellHandler{})
	r.Register("set_date_picker", setDatePickerHandler{})
	r.Register("upload_file", uploadFileHandler{})
	r.Register("wait_for_toast", waitForToastHandler{})
	r.Register("assert_no_console_error", assertNoConsoleErrorHandler{})

	return r
}
