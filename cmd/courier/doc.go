// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Courier turns message send options into the payloads a Discord client sends:
one JSON object per message, in the shape the target expects, with long
content split across several messages.

# Usage

	$ courier [flags...] <request.yaml | ->
	$ courier [flags...] -script <file.star>

A request file holds one or more YAML documents. Each has a target and
options:

	target:
	  kind: webhook
	  id: "1234"
	  name: Deploy bot
	options:
	  content: Deployed!
	  embeds:
	    - title: v1.2.3
	  files:
	    - /var/log/deploy.txt

Target kinds are channel, user, message, webhook, interaction and
interaction_webhook. Options are content, tts, nonce, embed, embeds,
components, files, attachments, allowedMentions, reply, ephemeral, flags,
username, avatarURL, split and code.

Every payload is printed on its own line of standard output as JSON.

With -out, the files of every message are resolved and a multipart request
body is written for each message into the given directory, as 001.body,
002.body and so on.

# Scripts

With -script, a Starlark script is run instead of reading a request. The
discord and json modules are predeclared, and every payload built with
discord.payload is printed like a request's would be.

	msgs = discord.payload(
	    discord.channel("1234"),
	    content = "hello",
	    allowedMentions = {"parse": []},
	)

# Environment

Flags can be overridden by COURIER_* environment variables, listed in the
flag descriptions. With -env-file, variables that are not set in the
environment are read from a dotenv file.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/courier/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
