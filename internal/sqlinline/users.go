package sqlinline

const QSelectUser = `--sql 0b5cc537-21ee-49a5-b512-1f58c9de9455
select
    id,
    plan,
    plan_expiry,
    daily_prompt_count,
    coalesce(last_prompt_date, '') as last_prompt_date,
    download_used,
    created_at,
    updated_at
from users
where id = $1::text
limit 1;
`

const QResetDailyUsage = `--sql 2f31a6d3-ff3c-435a-bfd2-6e0ec1465964
update users
set last_prompt_date = $2::text,
    daily_prompt_count = 1,
    updated_at = now()
where id = $1::text;
`

const QIncrementDailyUsage = `--sql bb62720c-8b21-46c2-9ea9-2ecd06e44fb9
update users
set daily_prompt_count = daily_prompt_count + 1,
    updated_at = now()
where id = $1::text;
`

const QSetUserPlan = `--sql 4166a019-461f-495d-b2ea-f38f7f02e9e4
update users
set plan = $2::text,
    plan_expiry = $3,
    updated_at = now()
where id = $1::text;
`

const QIncrementDownloadUsed = `--sql 86167faf-32bc-45f7-b792-2246ad109d28
update users
set download_used = download_used + 1,
    updated_at = now()
where id = $1::text;
`

const QSettlePayment = `--sql 733b0e61-0139-4803-9466-e8497ad0422c
update users
set plan = $2::text,
    plan_expiry = $3,
    last_payment_id = $4::text,
    updated_at = now()
where id = $1::text;
`
