package portal

// Page scripts return plain data; filtering happens in Go.
const (
	// chapterRowsJS lists elements whose text starts with "Day N".
	chapterRowsJS = `() => {
		const rows = [];
		for (const el of document.querySelectorAll('li, a, button, div')) {
			const text = (el.innerText || '').trim();
			if (!/^Day\s+\d+/.test(text) || text.length > 80) continue;
			const html = (el.innerHTML || '').toLowerCase();
			rows.push({ text: text, lock: html.includes('lock') || text.includes('\u{1F512}') });
		}
		return rows;
	}`

	// problemRowsJS finds the heading of day N, walks up to the panel that
	// holds the problem list and returns its item texts.
	problemRowsJS = `(day) => {
		const want = new RegExp('^(' + day + '\\.\\s*)?Day\\s+' + day + '\\b');
		const headings = Array.from(document.querySelectorAll('h1, h2, h3, [class*="title"], [class*="heading"], div, span'))
			.filter(el => want.test((el.innerText || '').trim()) && (el.innerText || '').trim().length < 40);
		if (headings.length === 0) return null;
		let container = headings[headings.length - 1].parentElement;
		const itemSel = 'li, a[href], div[class*="item"], div[class*="lesson"], div[class*="problem"]';
		for (let i = 0; i < 8 && container; i++) {
			if (container.querySelectorAll(itemSel).length >= 2) break;
			container = container.parentElement;
		}
		if (!container) return null;
		return Array.from(container.querySelectorAll(itemSel)).map(el => {
			const html = el.innerHTML || '';
			return {
				text: (el.textContent || '').replace(/\s+/g, ' ').trim(),
				done: html.includes('check') || html.includes('complete') || html.includes('done') ||
					el.querySelector('svg circle[fill]') !== null,
			};
		});
	}`

	// listItemsJS is the fallback when no day heading is found.
	listItemsJS = `() => Array.from(document.querySelectorAll('li'))
		.map(el => ({ text: (el.innerText || '').replace(/\s+/g, ' ').trim(), done: false }))`

	// openCourseJS clicks Continue Learning on the smallest card carrying
	// the title fragment, or the card itself.
	openCourseJS = `(fragment) => {
		let card = null;
		for (const el of document.querySelectorAll('div')) {
			const text = (el.innerText || '').trim();
			if (text.includes(fragment) && text.length < fragment.length + 100) { card = el; break; }
		}
		if (!card) return 'missing';
		const btn = Array.from(card.querySelectorAll('button, a'))
			.find(b => /Continue Learning/i.test(b.innerText || ''));
		(btn || card).click();
		return btn ? 'continue' : 'card';
	}`

	// checkboxJS ticks the first unchecked consent box.
	checkboxJS = `() => {
		const box = document.querySelector("input[type='checkbox'], [role='checkbox']");
		if (!box) return false;
		const checked = box.checked === true || box.getAttribute('aria-checked') === 'true';
		if (!checked) box.click();
		return true;
	}`
)
