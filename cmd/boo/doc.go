// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the boo command tree.
//
// Commands are built by newRootCommand around an App, which holds the injected
// services (configuration, prompts, browser launch) and the output streams, so the
// whole tree can be exercised in-process by tests.
package cmd
