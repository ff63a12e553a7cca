package webuiemitter

import (
	"fmt"
	"strings"

	genspec "github.com/mark3labs/swagger2webui/internal/spec"
)

// Placeholders substituted by Assemble. Each appears exactly once in the
// prelude; substitution is a single literal replacement per placeholder, not
// a global one.
const (
	phTitle       = "__API_TITLE__"
	phDescription = "__API_DESCRIPTION__"
	phVersion     = "__API_VERSION__"
	phScheme      = "__API_SCHEME__"
	phHost        = "__API_HOST__"
	phBasePath    = "__API_BASE_PATH__"
)

// prelude is the shared scaffold every generated module starts with: the
// progress-event emitter, the operator/user configuration groups, and the
// request-dispatch primitive all operation units call into.
const prelude = `"""
title: __API_TITLE__
description: __API_DESCRIPTION__
version: __API_VERSION__
requirements: requests, pydantic
"""

import json
import requests
from typing import Any, Awaitable, Callable, Dict, List, Optional
from pydantic import BaseModel, Field


class EventEmitter:
    def __init__(self, event_emitter: Callable[[dict], Awaitable[None]]):
        self.event_emitter = event_emitter

    async def emit_status(
        self, description: str, done: bool, error: bool = False
    ) -> None:
        """
        Emit a status event with a description and completion status.

        Args:
            description: Text description of the status.
            done: Whether the process is complete.
            error: Whether an error occurred during the process.
        """
        if error and not done:
            raise ValueError("Error status must also be marked as done")

        icon = "\u2705" if done and not error else "\U0001f6ab " if error else "\U0001f4ac"

        try:
            await self.event_emitter(
                {
                    "data": {
                        "description": f"{icon} {description}",
                        "status": "complete" if done else "in_progress",
                        "done": done,
                    },
                    "type": "status",
                }
            )
        except Exception as e:
            raise RuntimeError(f"Failed to emit status event: {str(e)}") from e

    async def emit_message(self, content: str) -> None:
        """
        Emit a simple message event.

        Args:
            content: The message content to emit.
        """
        if not content:
            raise ValueError("Message content cannot be empty")

        try:
            await self.event_emitter({"data": {"content": content}, "type": "message"})
        except Exception as e:
            raise RuntimeError(f"Failed to emit message event: {str(e)}") from e

    async def emit_source(
        self, name: str, url: str, content: str, html: bool = False
    ) -> None:
        """
        Emit a citation source event.

        Args:
            name: The name of the source.
            url: The URL of the source.
            content: The content of the citation.
            html: Whether the content is HTML formatted.
        """
        if not name or not url or not content:
            raise ValueError("Source name, URL, and content are required")

        try:
            await self.event_emitter(
                {
                    "type": "citation",
                    "data": {
                        "document": [content],
                        "metadata": [{"source": url, "html": html}],
                        "source": {"name": name},
                    },
                }
            )
        except Exception as e:
            raise RuntimeError(f"Failed to emit source event: {str(e)}") from e

    async def emit_table(
        self,
        headers: List[str],
        rows: List[List[Any]],
        title: Optional[str] = "Results",
    ) -> None:
        """
        Emit a formatted markdown table of data.

        Args:
            headers: List of column headers for the table.
            rows: List of rows, where each row is a list of values.
            title: Optional title for the table, defaults to "Results".
        """
        if not headers:
            raise ValueError("Table must have at least one header")

        if any(len(row) != len(headers) for row in rows):
            raise ValueError("All rows must have the same number of columns as headers")

        table = (
            f"### {title}\n\n|"
            + "|".join(headers)
            + "|\n|"
            + "|".join(["---"] * len(headers))
            + "|\n"
        )

        for row in rows:
            formatted_row = [str(cell).replace("|", "\\|") for cell in row]
            table += "|" + "|".join(formatted_row) + "|\n"

        table += "\n"

        await self.emit_message(table)


class Tools:
    def __init__(self):
        self.valves = self.Valves()
        self.user_valves = self.UserValves()

    class UserValves(BaseModel):
        user_token: str = Field(
            "",
            description="Your personal API access token (preferred over the configured default)",
        )

    class Valves(BaseModel):
        base_url: str = Field(
            "__API_SCHEME__://__API_HOST__",
            description="API server address",
        )
        api_token: str = Field(
            "",
            description="Default API access token (used when the user has not provided one)",
        )

    def _get_auth_token(self, __user__: dict = {}) -> Optional[str]:
        """
        Resolve the API access token, preferring the user-level token.
        """
        try:
            if __user__ and "valves" in __user__ and "user_token" in __user__["valves"]:
                token = __user__["valves"]["user_token"]
                if token:
                    return token
            return self.valves.api_token
        except Exception as e:
            raise ValueError(f"Unable to resolve API access token: {str(e)}")

    def _get_server(self) -> str:
        """
        Resolve the configured API server address.
        """
        if self.valves.base_url:
            return self.valves.base_url
        raise ValueError("The API server address must be set in the tool configuration")

    def _make_request(self, method: str, endpoint: str, __user__: dict = {}, data: Dict[str, Any] = None, params: Dict[str, Any] = None) -> str:
        """
        Send a request to the API.

        :param method: HTTP method (GET, POST, PUT, DELETE, PATCH)
        :param endpoint: API endpoint path
        :param __user__: User information dictionary
        :param data: Request body dictionary
        :param params: Query parameter dictionary
        :return: API response as a JSON string
        """
        token = self._get_auth_token(__user__)
        if not token:
            raise ValueError("No API access token found. Please add your token in the user settings.")

        server_url = self._get_server()
        url = f"{server_url.rstrip('/')}__API_BASE_PATH__{endpoint}"

        headers = {
            "Authorization": f"Bearer {token}",
            "Content-Type": "application/json",
            "Accept": "application/json",
        }

        try:
            if method.lower() == "get":
                response = requests.get(url, headers=headers, params=params)
            elif method.lower() == "post":
                response = requests.post(url, headers=headers, json=data, params=params)
            elif method.lower() == "put":
                response = requests.put(url, headers=headers, json=data, params=params)
            elif method.lower() == "patch":
                response = requests.patch(url, headers=headers, json=data, params=params)
            elif method.lower() == "delete":
                response = requests.delete(url, headers=headers, params=params)
            else:
                raise ValueError(f"Unsupported request method: {method}")

            if response.status_code < 200 or response.status_code >= 300:
                return json.dumps({"error": f"Request failed with status {response.status_code}: {response.text}, request URL: {url}"}, ensure_ascii=False)

            if response.text.strip():
                return json.dumps(response.json(), ensure_ascii=False)
            return json.dumps({"status": "success", "status_code": response.status_code}, ensure_ascii=False)

        except requests.exceptions.RequestException as e:
            error_message = str(e)
            try:
                if hasattr(e, "response") and e.response is not None and e.response.text:
                    error_message = f"{error_message}: {e.response.text}"
            except Exception:
                pass
            return json.dumps({"error": f"API request failed: {error_message}"}, ensure_ascii=False)
`

// Assemble produces the full generated module: the prelude with document
// metadata substituted, followed by every operation unit in order. Each
// placeholder is replaced exactly once (literal replacement, n=1).
func Assemble(doc *genspec.Document, units []OperationUnit) string {
	out := prelude
	for _, sub := range []struct{ placeholder, value string }{
		{phTitle, doc.Title},
		{phDescription, doc.Description},
		{phVersion, doc.Version},
		{phScheme, doc.Scheme},
		{phHost, doc.Host},
		{phBasePath, doc.BasePath},
	} {
		out = strings.Replace(out, sub.placeholder, sub.value, 1)
	}

	var b strings.Builder
	b.WriteString(out)
	for _, unit := range units {
		b.WriteString("\n")
		b.WriteString(RenderUnit(unit))
	}
	return b.String()
}

// RenderUnit renders one operation unit as a Python method of the generated
// Tools class.
func RenderUnit(unit OperationUnit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "    async def %s(self%s) -> str:\n", unit.Identifier, renderSignature(unit))
	renderDocstring(&b, unit)

	b.WriteString("        event_emitter = None\n")
	b.WriteString("        if __event_emitter__:\n")
	b.WriteString("            event_emitter = EventEmitter(__event_emitter__)\n")
	fmt.Fprintf(&b, "            await event_emitter.emit_status(%s, False)\n", pyString("Calling "+unit.Identifier))
	b.WriteString("\n")
	b.WriteString("        try:\n")

	dataArg, paramsArg := renderRequestInputs(&b, unit)

	fmt.Fprintf(&b, "            result = self._make_request(%s, f%s, __user__%s%s)\n",
		pyString(strings.ToUpper(string(unit.Verb))), pyString(unit.Path), dataArg, paramsArg)
	b.WriteString("\n")
	b.WriteString("            if event_emitter:\n")
	b.WriteString("                result_obj = json.loads(result)\n")
	b.WriteString("                if \"error\" in result_obj:\n")
	fmt.Fprintf(&b, "                    await event_emitter.emit_status(f\"%s failed: {result_obj['error']}\", True, True)\n", unit.Identifier)
	b.WriteString("                else:\n")
	b.WriteString("                    await event_emitter.emit_message(f\"```json\\n{json.dumps(result_obj, indent=2, ensure_ascii=False)}\\n```\")\n")
	fmt.Fprintf(&b, "                    await event_emitter.emit_status(%s, True)\n", pyString(unit.Identifier+" completed"))
	b.WriteString("\n")
	b.WriteString("            return result\n")
	b.WriteString("\n")
	b.WriteString("        except Exception as e:\n")
	b.WriteString("            error_message = str(e)\n")
	b.WriteString("            if event_emitter:\n")
	fmt.Fprintf(&b, "                await event_emitter.emit_status(f\"%s failed: {error_message}\", True, True)\n", unit.Identifier)
	fmt.Fprintf(&b, "            return json.dumps({\"error\": f\"%s failed: {error_message}\"}, ensure_ascii=False)\n", escapePy(unit.Summary))

	return b.String()
}

// renderSignature builds the parameter list: path parameters first (always
// required), then query parameters (optional ones default to None), then the
// generic body-data parameter when a body is declared, then the two trailing
// infrastructure parameters.
func renderSignature(unit OperationUnit) string {
	var b strings.Builder
	for _, p := range unit.PathParams {
		fmt.Fprintf(&b, ", %s: str", p.Name)
	}
	for _, p := range unit.QueryParams {
		if p.Required {
			fmt.Fprintf(&b, ", %s", p.Name)
		} else {
			fmt.Fprintf(&b, ", %s=None", p.Name)
		}
	}
	if unit.BodyParam != nil {
		b.WriteString(", body_data: dict = None")
	}
	b.WriteString(", __user__: dict = {}, __event_emitter__: Callable[[dict], Awaitable[None]] = None")
	return b.String()
}

func renderDocstring(b *strings.Builder, unit OperationUnit) {
	b.WriteString("        \"\"\"\n")
	fmt.Fprintf(b, "        %s\n", sanitizeDoc(unit.Summary))
	b.WriteString("\n")
	for _, p := range unit.PathParams {
		writeParamDoc(b, p.Name, p.Description, p.Type)
	}
	for _, p := range unit.QueryParams {
		writeParamDoc(b, p.Name, p.Description, p.Type)
	}
	if p := unit.BodyParam; p != nil {
		writeParamDoc(b, "body_data", p.Description, p.Type)
	}
	b.WriteString("        :return: API response as a JSON string\n")
	b.WriteString("        \"\"\"\n")
}

func writeParamDoc(b *strings.Builder, name, description string, td *genspec.TypeDesc) {
	desc := description
	if desc == "" {
		desc = name
	}
	fmt.Fprintf(b, "        :param %s: %s (%s)\n", name, sanitizeDoc(desc), MapType(td))
}

// renderRequestInputs emits the query and body construction statements and
// returns the data= and params= argument fragments for the dispatch call.
//
// Query policy: with no declared query parameters, the mapping is omitted
// entirely so the request layer can distinguish "no query support" from
// "empty query"; otherwise the mapping carries only caller-supplied values.
// Body policy: GET and DELETE never attach a body; other verbs forward the
// caller's body_data, defaulting to an empty mapping, when the document
// declares a body parameter.
func renderRequestInputs(b *strings.Builder, unit OperationUnit) (dataArg, paramsArg string) {
	if len(unit.QueryParams) > 0 {
		b.WriteString("            params = {}\n")
		for _, p := range unit.QueryParams {
			if p.Required {
				fmt.Fprintf(b, "            params[%s] = %s\n", pyString(p.Name), p.Name)
			} else {
				fmt.Fprintf(b, "            if %s is not None:\n", p.Name)
				fmt.Fprintf(b, "                params[%s] = %s\n", pyString(p.Name), p.Name)
			}
		}
		b.WriteString("\n")
		paramsArg = ", params=params"
	}

	if unit.AllowBody && unit.BodyParam != nil {
		b.WriteString("            data = body_data if body_data is not None else {}\n")
		b.WriteString("\n")
		dataArg = ", data=data"
	}
	return dataArg, paramsArg
}

// pyString renders s as a double-quoted Python string literal.
func pyString(s string) string {
	return "\"" + escapePy(s) + "\""
}

func escapePy(s string) string {
	return strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n").Replace(s)
}

// sanitizeDoc keeps docstring lines on one line and avoids terminating the
// docstring early.
func sanitizeDoc(s string) string {
	s = strings.ReplaceAll(s, "\"\"\"", "'''")
	return strings.Join(strings.Fields(s), " ")
}
