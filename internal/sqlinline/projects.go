package sqlinline

const QSelectProject = `--sql 62d9c3b4-aa66-4159-8eb9-198b70429099
select
    id,
    user_id,
    coalesce(prompt, '') as prompt,
    coalesce(pages, '{}'::jsonb) as pages,
    coalesce(backend_code, '') as backend_code,
    generation_count,
    created_at,
    updated_at
from projects
where user_id = $1::text
  and id = $2::text
limit 1;
`

// QSaveGeneration merges one page document into the pages mapping, replaces
// the backend code and bumps the generation counter in a single statement.
const QSaveGeneration = `--sql bf7d88b4-2438-403f-a8ba-350faabf33af
update projects
set pages = jsonb_set(coalesce(pages, '{}'::jsonb), array[$3::text], $4::jsonb, true),
    backend_code = $5::text,
    generation_count = generation_count + 1,
    updated_at = now()
where user_id = $1::text
  and id = $2::text;
`

// QAppendTrace appends one chat message to the advisory progress trace.
const QAppendTrace = `--sql 30edfd46-02c8-41b7-af79-b9f47e34fb6a
update projects
set trace = coalesce(trace, '[]'::jsonb) || $3::jsonb,
    updated_at = now()
where user_id = $1::text
  and id = $2::text;
`
