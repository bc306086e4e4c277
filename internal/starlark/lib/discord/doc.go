// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package discord contains a Starlark module that builds Discord message payloads.

# Targets

Targets say where a message goes. They are built with:

  - channel(id, messages=[]): a text channel
  - user(id, messages=[]): a direct message channel
  - message(id, flags=0, messages=[]): a sent message that is edited
  - webhook(id, name="", avatar=""): a webhook
  - interaction(id, messages=[]): a response to an interaction
  - interaction_webhook(id): a follow-up message of an interaction

messages lists identifiers of known messages that replies can refer to.
A target has kind and id attributes.

# payload

The payload function takes a target and send options as keyword arguments
and returns a list of payloads, one per message. Content longer than the
split limit yields several payloads. For example:

	msgs = discord.payload(
	    discord.webhook("1", name="Announcer"),
	    content="Release notes",
	    embeds=[{"title": "v1.2.0", "color": 0x00ff00}],
	    allowedMentions={"parse": []},
	)

# split

The split function splits text into chunks:

	chunks = discord.split(text, max_length=2000, char=["\n\n", "\n"], prepend="", append="")

# escape_code_block

The escape_code_block function breaks triple backticks in text, so that it
can be placed into a code block.
*/
package discord

import (
	_ "embed"
	"fmt"
	"sync"

	"go.astrophena.name/courier/internal/starlark/lib/internal"
)

//go:embed doc.go
var doc []byte

// Documentation returns the documentation of the module.
// It panics if the embedded doc comment is malformed, which only a broken
// build can cause.
var Documentation = sync.OnceValue(func() string {
	s, err := internal.ParseDocComment(doc)
	if err != nil {
		panic(fmt.Sprintf("discord: parsing module documentation: %v", err))
	}
	return s
})
