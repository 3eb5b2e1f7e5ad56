package fetcher

import "encoding/json"

// Known trigger selectors for interactive FAQ widgets. These cover the
// site family's tab and accordion variants.
var tabSelectors = []string{
	"[role=tab]",
	"[data-bs-toggle='tab']",
	"[data-toggle='tab']",
	".nav-tabs a[href^='#']",
	".tabs a[href^='#']",
	".c-tabs a[href^='#']",
	".faq__tabs a[href^='#']",
}

var accordionSelectors = []string{
	"summary",
	".accordion-button",
	".accordion__button",
	".accordion__header button",
	".accordion-header button",
	"[data-accordion-trigger]",
	"[data-faq-item] button",
	"[aria-controls]",
}

// clickAllJS builds a script clicking every element matching the selectors.
// Individual click failures are swallowed in-page.
func clickAllJS(selectors []string) string {
	list, _ := json.Marshal(selectors)
	return `(function() {
		var selectors = ` + string(list) + `;
		for (var s = 0; s < selectors.length; s++) {
			var nodes = document.querySelectorAll(selectors[s]);
			for (var i = 0; i < nodes.length; i++) {
				try { nodes[i].click(); } catch (e) {}
			}
		}
		return true;
	})()`
}

// forceAriaPanelsJS marks every ARIA-linked panel as expanded and visible,
// bypassing CSS that may hide panels that are accessible to a screen
// reader but visually collapsed.
const forceAriaPanelsJS = `(function() {
	var triggers = document.querySelectorAll("[aria-controls]");
	for (var i = 0; i < triggers.length; i++) {
		var n = triggers[i];
		var ctrl = n.getAttribute("aria-controls");
		if (!ctrl) continue;
		n.setAttribute("aria-expanded", "true");
		var p = document.getElementById(ctrl);
		if (p) {
			p.hidden = false;
			p.style.display = "block";
			p.classList.add("open", "show", "is-open");
		}
	}
	return true;
})()`

// openDetailsJS forces every native disclosure element open.
const openDetailsJS = `(function() {
	var nodes = document.querySelectorAll("details");
	for (var i = 0; i < nodes.length; i++) { nodes[i].open = true; }
	return true;
})()`

// clickLoadMoreJS clicks the first visible load-more control and reports
// whether anything was clicked.
const clickLoadMoreJS = `(function() {
	var isVisible = function(el) {
		if (!el) return false;
		var style = window.getComputedStyle(el);
		var rect = el.getBoundingClientRect();
		if (style.display === "none" || style.visibility === "hidden") return false;
		return rect.width > 0 && rect.height > 0;
	};
	var candidates = document.querySelectorAll("[data-load-more], .load-more, .js-load-more");
	for (var i = 0; i < candidates.length; i++) {
		if (isVisible(candidates[i])) { try { candidates[i].click(); return true; } catch (e) {} }
	}
	var controls = document.querySelectorAll("button, a");
	for (var j = 0; j < controls.length; j++) {
		var el = controls[j];
		var t = (el.innerText || "").trim().toLowerCase();
		if (!/^(load more|show more|view all|see more)$/.test(t)) continue;
		if (isVisible(el)) { try { el.click(); return true; } catch (e) {} }
	}
	return false;
})()`

// harvestJS collects Q/A pairs from the live, expanded DOM. Four passes:
// details/summary, aria-controls trigger/panel, common item containers,
// and h3/h4 heading blocks. requireVisible restricts the harvest to
// elements laid out in the flow with non-hidden computed style.
func harvestJS(requireVisible bool) string {
	visible := "false"
	if requireVisible {
		visible = "true"
	}
	return `(function() {
	var requireVisible = ` + visible + `;
	var isVisible = function(el) {
		if (!el) return false;
		if (!requireVisible) return true;
		var style = window.getComputedStyle(el);
		var rect = el.getBoundingClientRect();
		var hidden = style.display === "none" || style.visibility === "hidden" || style.opacity === "0";
		var zero = rect.width === 0 || rect.height === 0;
		return !hidden && !zero && el.offsetParent !== null;
	};
	var norm = function(s) { return (s || "").replace(/\s+/g, " ").trim(); };
	var text = function(el) { return el ? norm(el.innerText) : ""; };

	var out = [];
	var seen = {};
	var push = function(q, a) {
		if (!q || !a) return;
		var k = (q + "||" + a).toLowerCase();
		if (seen[k]) return;
		seen[k] = true;
		out.push({ q: q, a: a });
	};

	document.querySelectorAll("details").forEach(function(det) {
		if (!isVisible(det)) return;
		var q = text(det.querySelector("summary"));
		var clone = det.cloneNode(true);
		var sum = clone.querySelector("summary");
		if (sum) sum.remove();
		push(q, norm(clone.innerText));
	});

	document.querySelectorAll("[aria-controls]").forEach(function(trig) {
		var id = trig.getAttribute("aria-controls") || "";
		if (!id) return;
		var panel = document.getElementById(id);
		if (!isVisible(trig) || (requireVisible && !isVisible(panel))) return;
		push(text(trig), text(panel));
	});

	if (!requireVisible) {
		document.querySelectorAll("[data-bs-target],[data-target],a[href^='#']").forEach(function(trig) {
			var t = trig.getAttribute("data-bs-target") || trig.getAttribute("data-target") || trig.getAttribute("href") || "";
			var id = t.charAt(0) === "#" ? t.slice(1) : "";
			if (!id) return;
			push(text(trig), text(document.getElementById(id)));
		});
	}

	var itemSel = ".accordion-item, .accordion__item, .faq-item, .faq__item, [data-faq-item], [data-accordion-item]";
	document.querySelectorAll(itemSel).forEach(function(it) {
		if (!isVisible(it)) return;
		var qEl = it.querySelector("summary, h1, h2, h3, h4, button, .question, [data-question], [role=button]") ||
			it.querySelector("[class*='title']");
		var aEl = it.querySelector(".answer, .accordion-body, .accordion__panel, [data-answer]") ||
			it.querySelector("[class*='content'], [class*='panel']");
		if (!aEl) {
			var clone = it.cloneNode(true);
			clone.querySelectorAll("summary, h1, h2, h3, h4, h5, h6, button, .question, [data-question], [role=button]")
				.forEach(function(n) { n.remove(); });
			aEl = clone;
		}
		push(text(qEl), text(aEl));
	});

	if (requireVisible) {
		document.querySelectorAll("h3, h4").forEach(function(h) {
			if (!isVisible(h)) return;
			var q = text(h);
			var a = "";
			var n = h.nextElementSibling;
			var steps = 0;
			while (n && steps < 12) {
				if (/^h[1-6]$/i.test(n.tagName)) break;
				if (!/^(script|style)$/i.test(n.tagName) && isVisible(n)) a += " " + text(n);
				n = n.nextElementSibling;
				steps++;
			}
			push(q, norm(a));
		});
	}

	return out.filter(function(x) {
		return x.a && x.a.length >= 5 && x.a.toLowerCase() !== x.q.toLowerCase();
	});
})()`
}

var (
	harvestVisibleJS    = harvestJS(true)
	harvestAccessibleJS = harvestJS(false)
)
